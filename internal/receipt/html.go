package receipt

import (
	"bytes"
	"fmt"
	"html/template"

	"flowershop/internal/domain"
	"flowershop/internal/money"

	"github.com/shopspring/decimal"
)

var htmlTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"peso": func(d decimal.Decimal) string { return money.Format(d) },
	"date": func(doc Document) string { return doc.Date.Format("January 2, 2006") },
}).Parse(htmlLayout))

// HTML renders a self-contained HTML receipt.
func (r *Renderer) HTML(order domain.Order) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, r.Document(order)); err != nil {
		return "", fmt.Errorf("render receipt html: %w", err)
	}
	return buf.String(), nil
}

const htmlLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Receipt {{.OrderID}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 0; padding: 24px; }
.receipt { max-width: 720px; margin: 0 auto; border: 1px solid #e5e5e5; padding: 32px; }
.header { display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 2px solid #c2185b; padding-bottom: 16px; }
.store { font-size: 22px; font-weight: bold; color: #c2185b; }
.muted { color: #777; font-size: 13px; }
.title { font-size: 20px; letter-spacing: 2px; }
.blocks { display: flex; justify-content: space-between; margin: 24px 0; }
.block h4 { margin: 0 0 6px; font-size: 12px; text-transform: uppercase; color: #999; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 8px; text-align: left; border-bottom: 1px solid #eee; font-size: 14px; }
th.num, td.num { text-align: right; }
tr.addon td { color: #555; font-size: 13px; }
tr.addon td.label { padding-left: 28px; }
.totals { margin-top: 16px; margin-left: auto; width: 280px; }
.totals div { display: flex; justify-content: space-between; padding: 4px 0; }
.totals .grand { font-weight: bold; font-size: 16px; border-top: 2px solid #222; padding-top: 8px; }
.note { margin-top: 24px; font-size: 13px; }
</style>
</head>
<body>
<div class="receipt">
  <div class="header">
    <div>
      <div class="store">{{.Store.Name}}</div>
      {{with .Store.Tagline}}<div class="muted">{{.}}</div>{{end}}
      {{with .Store.Address}}<div class="muted">{{.}}</div>{{end}}
      {{with .Store.Contact}}<div class="muted">{{.}}</div>{{end}}
    </div>
    <div class="title">ORDER RECEIPT</div>
  </div>

  <div class="blocks">
    <div class="block">
      <h4>Bill To</h4>
      <div>{{.BillTo.Name}}</div>
      <div>{{.BillTo.Address}}</div>
      {{with .BillTo.Phone}}<div>{{.}}</div>{{end}}
    </div>
    <div class="block">
      <h4>Receipt</h4>
      <div>Receipt #: {{.OrderID}}</div>
      <div>Date: {{date .}}</div>
      {{with .Delivery.Date}}<div>Delivery: {{.}}{{with $.Delivery.Time}} {{.}}{{end}}</div>{{end}}
    </div>
  </div>

  <table>
    <thead>
      <tr><th class="num">Qty</th><th>Description</th><th class="num">Unit Price</th><th class="num">Amount</th></tr>
    </thead>
    <tbody>
    {{- range .Lines}}
      <tr{{if .Indented}} class="addon"{{end}}><td class="num">{{.Quantity}}</td><td class="label">{{if .Indented}}+ {{end}}{{.Label}}</td><td class="num">{{peso .UnitPrice}}</td><td class="num">{{peso .Amount}}</td></tr>
    {{- end}}
    </tbody>
  </table>

  <div class="totals">
    <div><span>Subtotal</span><span>{{peso .Totals.Subtotal}}</span></div>
    <div><span>Tax (5%)</span><span>{{peso .Totals.Tax}}</span></div>
    <div><span>Shipping</span><span>{{peso .Totals.Shipping}}</span></div>
    <div class="grand"><span>Total</span><span>{{peso .Totals.Total}}</span></div>
  </div>

  {{with .Delivery.MessageCard}}<div class="note"><strong>Message card:</strong> {{.}}</div>{{end}}
  {{with .Delivery.SpecialInstructions}}<div class="note"><strong>Instructions:</strong> {{.}}</div>{{end}}
  <div class="note muted">Thank you for your order!</div>
</div>
</body>
</html>
`
