package domain

import "time"

// Category groups products on the storefront. Products reference it by ID.
type Category struct {
	ID          string    `json:"_id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	BannerImage string    `json:"bannerImage,omitempty" bson:"bannerImage,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
