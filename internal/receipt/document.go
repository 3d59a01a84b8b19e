package receipt

import (
	"fmt"
	"time"

	"flowershop/internal/domain"
	"flowershop/internal/money"

	"github.com/shopspring/decimal"
)

// Marker appears verbatim in every HTML receipt rendered by this template version.
const Marker = "ORDER RECEIPT"

const placeholder = "—"

// Store is the seller identity printed in the receipt header.
type Store struct {
	Name    string
	Tagline string
	Address string
	Contact string
}

// DefaultStore is used when no store identity is configured.
var DefaultStore = Store{
	Name:    "Fatima Flowers",
	Tagline: "Fresh flowers delivered to your doorstep",
}

// Document is the format-independent receipt content.
type Document struct {
	Store    Store
	OrderID  string
	Date     time.Time
	BillTo   Party
	Customer Party
	Delivery Delivery
	Lines    []Line
	Totals   money.Totals
}

type Party struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type Delivery struct {
	Date                string
	Time                string
	Sender              string
	MessageCard         string
	SpecialInstructions string
}

// Line is one printed row. Add-on rows are Indented and follow their parent item.
type Line struct {
	Indented  bool
	Quantity  int
	Label     string
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
}

// Build maps a resolved order into a Document. now is used when the order has no creation time.
func Build(store Store, order domain.Order, now time.Time) Document {
	date := order.CreatedAt
	if date.IsZero() {
		date = now
	}

	doc := Document{
		Store:   store,
		OrderID: order.ID,
		Date:    date,
		BillTo: Party{
			Name:    orPlaceholder(order.RecipientName),
			Phone:   order.RecipientPhone,
			Address: orPlaceholder(order.Address),
		},
		Delivery: Delivery{
			Date:                order.DeliveryDate,
			Time:                order.DeliveryTime,
			Sender:              order.SenderName,
			MessageCard:         order.MessageCard,
			SpecialInstructions: order.SpecialInstructions,
		},
		Totals: money.Compute(order.Items),
	}
	if order.User != nil {
		doc.Customer = Party{Name: order.User.Name, Email: order.User.Email}
	}
	if doc.Customer.Name == "" {
		doc.Customer.Name = order.SenderName
	}

	for _, it := range order.Items {
		doc.Lines = append(doc.Lines, Line{
			Quantity:  it.Quantity,
			Label:     it.DisplayName(),
			UnitPrice: money.FromFloat(it.Price),
			Amount:    money.ProductSubtotal(it),
		})
		for _, a := range it.AddOns {
			label := a.DisplayName()
			if a.CustomMessage != "" {
				label = fmt.Sprintf("%s - \"%s\"", label, a.CustomMessage)
			}
			doc.Lines = append(doc.Lines, Line{
				Indented:  true,
				Quantity:  a.Quantity * it.Quantity,
				Label:     label,
				UnitPrice: money.FromFloat(a.Price),
				Amount:    money.AddOnAmount(a, it.Quantity),
			})
		}
	}
	return doc
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
