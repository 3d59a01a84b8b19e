package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusApproved  OrderStatus = "approved"
	StatusDeclined  OrderStatus = "declined"
	StatusCompleted OrderStatus = "completed"
)

// Valid reports whether s is one of the recognized order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDeclined, StatusCompleted:
		return true
	}
	return false
}

// Order is a placed checkout. Items carry snapshot prices; Total is stored as submitted.
//
// Product, AddOn and User pointers are filled on read by the resolver and are never persisted.
type Order struct {
	ID     string      `json:"_id" bson:"_id"`
	UserID string      `json:"userId" bson:"user"`
	Items  []LineItem  `json:"items" bson:"items"`
	Total  float64     `json:"total" bson:"total"`
	Status OrderStatus `json:"status" bson:"status"`

	DeliveryDate        string `json:"deliveryDate,omitempty" bson:"deliveryDate,omitempty"`
	DeliveryTime        string `json:"deliveryTime,omitempty" bson:"deliveryTime,omitempty"`
	SenderName          string `json:"senderName,omitempty" bson:"senderName,omitempty"`
	SenderPhone         string `json:"senderPhone,omitempty" bson:"senderPhone,omitempty"`
	RecipientName       string `json:"recipientName,omitempty" bson:"recipientName,omitempty"`
	RecipientPhone      string `json:"recipientPhone,omitempty" bson:"recipientPhone,omitempty"`
	Address             string `json:"address,omitempty" bson:"address,omitempty"`
	MessageCard         string `json:"messageCard,omitempty" bson:"messageCard,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty" bson:"specialInstructions,omitempty"`

	Receipt     string     `json:"receipt,omitempty" bson:"receipt,omitempty"`
	ReceiptHTML string     `json:"receiptHtml,omitempty" bson:"receiptHtml,omitempty"`
	ApprovedBy  string     `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`

	User *User `json:"user,omitempty" bson:"-"`
}

// LineItem is one product row of an order.
type LineItem struct {
	ProductID string           `json:"productId" bson:"product"`
	Quantity  int              `json:"quantity" bson:"quantity"`
	Price     float64          `json:"price" bson:"price"`
	AddOns    []AddOnSelection `json:"addOns,omitempty" bson:"addOns,omitempty"`

	Product *Product `json:"product,omitempty" bson:"-"`
}

// AddOnSelection is an add-on chosen for a line item. Quantity is per unit of the parent item.
type AddOnSelection struct {
	AddOnID       string  `json:"addOnId,omitempty" bson:"addOn,omitempty"`
	Quantity      int     `json:"quantity" bson:"quantity"`
	Price         float64 `json:"price" bson:"price"`
	CustomMessage string  `json:"customMessage,omitempty" bson:"customMessage,omitempty"`

	AddOn *AddOn `json:"addOn,omitempty" bson:"-"`
}

// Unresolved returns a copy of the items with catalog references dropped, ready for storage.
func (o Order) Unresolved() []LineItem {
	items := make([]LineItem, len(o.Items))
	for i, it := range o.Items {
		it.Product = nil
		if len(it.AddOns) > 0 {
			addOns := make([]AddOnSelection, len(it.AddOns))
			for j, a := range it.AddOns {
				a.AddOn = nil
				addOns[j] = a
			}
			it.AddOns = addOns
		}
		items[i] = it
	}
	return items
}

// DisplayName returns the product name when resolved, else the product reference.
func (li LineItem) DisplayName() string {
	if li.Product != nil && li.Product.Name != "" {
		return li.Product.Name
	}
	if li.ProductID != "" {
		return li.ProductID
	}
	return "Item"
}

// DisplayName returns the add-on name when resolved, else a generic label.
func (a AddOnSelection) DisplayName() string {
	if a.AddOn != nil && a.AddOn.Name != "" {
		return a.AddOn.Name
	}
	return "Add-on"
}
