package domain

import "time"

// Product is a catalog entry. Orders copy its price at checkout and never read it back for totals.
type Product struct {
	ID          string    `json:"_id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Slug        string    `json:"slug" bson:"slug"`
	Price       float64   `json:"price" bson:"price"`
	Images      []string  `json:"images,omitempty" bson:"images,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	AddOnIDs    []string  `json:"addOns,omitempty" bson:"addOns,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// AddOn is an optional extra (card, chocolates, balloon) sold alongside a product.
type AddOn struct {
	ID           string  `json:"_id" bson:"_id"`
	Name         string  `json:"name" bson:"name"`
	Price        float64 `json:"price" bson:"price"`
	Image        string  `json:"image,omitempty" bson:"image,omitempty"`
	Customizable bool    `json:"customizable" bson:"customizable"`
}
