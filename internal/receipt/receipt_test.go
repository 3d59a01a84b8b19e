package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"flowershop/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleOrder() domain.Order {
	return domain.Order{
		ID:            "ord-1",
		UserID:        "user-1",
		RecipientName: "Maria Santos",
		Address:       "12 Rizal St, Manila",
		CreatedAt:     time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		User:          &domain.User{ID: "user-1", Name: "Ana Cruz", Email: "ana@example.com"},
		Items: []domain.LineItem{{
			ProductID: "p-1",
			Quantity:  2,
			Price:     500,
			Product:   &domain.Product{ID: "p-1", Name: "Red Roses Bouquet"},
			AddOns: []domain.AddOnSelection{{
				AddOnID:       "a-1",
				Quantity:      1,
				Price:         50,
				CustomMessage: "Happy Birthday",
				AddOn:         &domain.AddOn{ID: "a-1", Name: "Greeting Card"},
			}},
		}},
	}
}

func newTestRenderer(pdf bool) *Renderer {
	return NewRenderer(DefaultStore, pdf, WithClock(func() time.Time { return fixedNow }), WithoutPDFCompression())
}

func TestHTML_ContainsMarkerItemsAndTotals(t *testing.T) {
	html, err := newTestRenderer(false).HTML(sampleOrder())
	require.NoError(t, err)

	assert.Contains(t, html, Marker)
	assert.Contains(t, html, "Fatima Flowers")
	assert.Contains(t, html, "Maria Santos")
	assert.Contains(t, html, "Receipt #: ord-1")
	assert.Contains(t, html, "February 1, 2026")
	assert.Contains(t, html, "Red Roses Bouquet")
	assert.Contains(t, html, "Greeting Card")
	assert.Contains(t, html, "Happy Birthday")
	assert.Contains(t, html, "₱1,000.00")
	assert.Contains(t, html, "₱1,100.00")
	assert.Contains(t, html, "₱55.00")
	assert.Contains(t, html, "₱1,155.00")
}

func TestHTML_AddOnQuantityScalesWithParent(t *testing.T) {
	doc := newTestRenderer(false).Document(sampleOrder())
	require.Len(t, doc.Lines, 2)
	assert.False(t, doc.Lines[0].Indented)
	assert.True(t, doc.Lines[1].Indented)
	assert.Equal(t, 2, doc.Lines[1].Quantity)
	assert.Equal(t, "100", doc.Lines[1].Amount.String())
}

func TestHTML_PlaceholdersAndDefaultDate(t *testing.T) {
	order := sampleOrder()
	order.RecipientName = ""
	order.Address = ""
	order.CreatedAt = time.Time{}

	html, err := newTestRenderer(false).HTML(order)
	require.NoError(t, err)
	assert.Contains(t, html, placeholder)
	assert.Contains(t, html, "March 14, 2026")
}

func TestHTML_EscapesUserInput(t *testing.T) {
	order := sampleOrder()
	order.Items[0].AddOns[0].CustomMessage = "<script>alert(1)</script>"

	html, err := newTestRenderer(false).HTML(order)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestHTML_UnresolvedReferencesFallBack(t *testing.T) {
	order := sampleOrder()
	order.Items[0].Product = nil
	order.Items[0].AddOns[0].AddOn = nil
	order.User = nil

	html, err := newTestRenderer(false).HTML(order)
	require.NoError(t, err)
	assert.Contains(t, html, "p-1")
	assert.Contains(t, html, "Add-on")
	assert.Contains(t, html, "₱1,155.00")
}

func TestPDF_Unsupported(t *testing.T) {
	out, err := newTestRenderer(false).PDF(sampleOrder())
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Nil(t, out)
}

func TestPDF_RendersTotalsMatchingHTML(t *testing.T) {
	r := newTestRenderer(true)
	order := sampleOrder()

	pdf, err := r.PDF(order)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	html, err := r.HTML(order)
	require.NoError(t, err)

	doc := r.Document(order)
	total := doc.Totals.Total.StringFixed(2)
	assert.Equal(t, "1155.00", total)
	assert.Contains(t, string(pdf), "Total: PHP 1,155.00")
	assert.Contains(t, html, "₱1,155.00")
	assert.Contains(t, string(pdf), "Order ID: ord-1")
	assert.Contains(t, string(pdf), "Red Roses Bouquet x 2 - PHP 500.00")
	assert.True(t, strings.Contains(string(pdf), "Ana Cruz <ana@example.com>"))
}
