// Package money computes order totals. Every receipt format goes through Compute so
// HTML, PDF and rebuilt receipts always agree.
package money

import (
	"math"
	"strconv"
	"strings"

	"flowershop/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TaxRate is the flat sales tax applied to the order subtotal.
var TaxRate = decimal.RequireFromString("0.05")

// Shipping is charged per order. It is currently always zero.
var Shipping = decimal.Zero

// Totals is the breakdown printed on every receipt.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// ProductSubtotal is unit price times quantity.
func ProductSubtotal(item domain.LineItem) decimal.Decimal {
	return amount(item.Price).Mul(count(item.Quantity))
}

// AddOnSubtotal sums add-on price x add-on quantity x parent quantity.
func AddOnSubtotal(item domain.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range item.AddOns {
		sum = sum.Add(AddOnAmount(a, item.Quantity))
	}
	return sum
}

// AddOnAmount is the charge for one add-on row given its parent item quantity.
func AddOnAmount(a domain.AddOnSelection, parentQty int) decimal.Decimal {
	return amount(a.Price).Mul(count(a.Quantity)).Mul(count(parentQty))
}

// Compute returns subtotal, tax, shipping and total for the items.
// Intermediate sums keep full precision; tax and total are rounded to cents.
func Compute(items []domain.LineItem) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(ProductSubtotal(it)).Add(AddOnSubtotal(it))
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: Shipping,
		Total:    subtotal.Add(tax).Add(Shipping).Round(2),
	}
}

var printer = message.NewPrinter(language.English)

// FormatNumber renders d with two decimals and thousands separators, e.g. "1,155.00".
// Digits come from the decimal itself, so large amounts are not rounded through float64.
func FormatNumber(d decimal.Decimal) string {
	d = d.Round(2)
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	var grouped string
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		grouped = printer.Sprintf("%d", n)
	} else {
		grouped = groupDigits(whole)
	}
	if d.IsNegative() {
		grouped = "-" + grouped
	}
	return grouped + "." + frac
}

func groupDigits(digits string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Format renders d in pesos, e.g. "₱1,155.00".
func Format(d decimal.Decimal) string {
	return "₱" + FormatNumber(d)
}

// FromFloat converts a stored price, treating NaN and infinities as zero.
func FromFloat(f float64) decimal.Decimal {
	return amount(f)
}

func amount(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func count(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
