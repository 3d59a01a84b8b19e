package receipt

import (
	"bytes"
	"fmt"

	"flowershop/internal/domain"
	"flowershop/internal/money"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// PDF renders a single-column PDF receipt. Core fonts are Latin-1 so amounts use the PHP code.
func (r *Renderer) PDF(order domain.Order) ([]byte, error) {
	if !r.pdf {
		return nil, ErrUnsupported
	}
	doc := r.Document(order)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compressPDF)
	pdf.SetTitle("Receipt "+doc.OrderID, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(doc.Store.Name+" Receipt"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	line := func(text string) {
		pdf.CellFormat(0, 7, tr(text), "", 1, "L", false, 0, "")
	}
	line("Order ID: " + doc.OrderID)
	customer := doc.Customer.Name
	if doc.Customer.Email != "" {
		customer += " <" + doc.Customer.Email + ">"
	}
	if customer != "" {
		line("Customer: " + customer)
	}
	line("Date: " + doc.Date.Format("January 2, 2006"))
	pdf.Ln(4)

	for _, l := range doc.Lines {
		if l.Indented {
			line(fmt.Sprintf("    + %s x %d - %s", l.Label, l.Quantity, pdfAmount(l.UnitPrice)))
			continue
		}
		line(fmt.Sprintf("%s x %d - %s", l.Label, l.Quantity, pdfAmount(l.UnitPrice)))
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	line("Total: " + pdfAmount(doc.Totals.Total))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfAmount(d decimal.Decimal) string {
	return "PHP " + money.FormatNumber(d)
}
