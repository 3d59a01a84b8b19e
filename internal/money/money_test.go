package money

import (
	"math"
	"testing"

	"flowershop/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_WorkedExample(t *testing.T) {
	items := []domain.LineItem{{
		Price:    500,
		Quantity: 2,
		AddOns:   []domain.AddOnSelection{{Price: 50, Quantity: 1}},
	}}

	assert.Equal(t, "1000", ProductSubtotal(items[0]).String())
	assert.Equal(t, "100", AddOnSubtotal(items[0]).String())

	got := Compute(items)
	assert.Equal(t, "1100.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "55.00", got.Tax.StringFixed(2))
	assert.Equal(t, "0.00", got.Shipping.StringFixed(2))
	assert.Equal(t, "1155.00", got.Total.StringFixed(2))
}

func TestCompute_Deterministic(t *testing.T) {
	items := []domain.LineItem{
		{Price: 19.99, Quantity: 3, AddOns: []domain.AddOnSelection{{Price: 0.1, Quantity: 3}}},
		{Price: 0.2, Quantity: 7},
	}
	first := Compute(items)
	second := Compute(items)
	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.Equal(t, Format(first.Total), Format(second.Total))
}

func TestCompute_KeepsPrecisionUntilFinalRounding(t *testing.T) {
	// 0.1 + 0.2 stays exact in decimal arithmetic.
	items := []domain.LineItem{
		{Price: 0.1, Quantity: 1},
		{Price: 0.2, Quantity: 1},
	}
	got := Compute(items)
	assert.Equal(t, "0.3", got.Subtotal.String())
	// 0.3 * 0.05 = 0.015 rounds half up to 0.02.
	assert.Equal(t, "0.02", got.Tax.StringFixed(2))
	assert.Equal(t, "0.32", got.Total.StringFixed(2))
}

func TestCompute_MissingValuesAreZero(t *testing.T) {
	items := []domain.LineItem{
		{Price: math.NaN(), Quantity: 2},
		{Price: 100, Quantity: 0},
		{Price: 10, Quantity: 1, AddOns: []domain.AddOnSelection{{Price: math.Inf(1), Quantity: 1}}},
	}
	got := Compute(items)
	assert.Equal(t, "10.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "0.50", got.Tax.StringFixed(2))
	assert.Equal(t, "10.50", got.Total.StringFixed(2))
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil)
	require.True(t, got.Total.IsZero())
	require.True(t, got.Subtotal.IsZero())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "₱1,155.00", Format(decimal.NewFromInt(1155)))
	assert.Equal(t, "₱0.00", Format(decimal.Zero))
	assert.Equal(t, "1,234,567.89", FormatNumber(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "12.35", FormatNumber(decimal.RequireFromString("12.345")))
	assert.Equal(t, "-1,155.50", FormatNumber(decimal.RequireFromString("-1155.5")))
}

func TestFormatNumber_LargeAmountsKeepEveryDigit(t *testing.T) {
	// Above 2^53 a float64 round trip would change the trailing digits.
	assert.Equal(t, "9,007,199,254,740,993.07", FormatNumber(decimal.RequireFromString("9007199254740993.07")))
	assert.Equal(t, "123,456,789,012,345,678,901.25", FormatNumber(decimal.RequireFromString("123456789012345678901.25")))
}
