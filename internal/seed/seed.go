// Package seed loads demo catalog data and accounts for manual testing.
package seed

import (
	"context"
	"fmt"

	"flowershop/internal/domain"
	authsvc "flowershop/internal/service/auth"
)

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type AddOnWriter interface {
	Upsert(ctx context.Context, a domain.AddOn) (*domain.AddOn, error)
}

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type UserWriter interface {
	Upsert(ctx context.Context, u domain.User) (*domain.User, error)
}

// Stores are the repositories seed data is written through.
type Stores struct {
	Categories CategoryWriter
	AddOns     AddOnWriter
	Products   ProductWriter
	Users      UserWriter
}

// Accounts holds credentials of the demo users.
type Accounts struct {
	AdminEmail       string
	AdminPassword    string
	CustomerEmail    string
	CustomerPassword string
}

// DefaultAccounts are used when the seed command gets no overrides.
var DefaultAccounts = Accounts{
	AdminEmail:       "admin@fatimaflowers.local",
	AdminPassword:    "admin12345",
	CustomerEmail:    "customer@fatimaflowers.local",
	CustomerPassword: "customer12345",
}

var categories = []domain.Category{
	{ID: "cat-roses", Name: "Roses", Slug: "roses", Description: "Classic roses for every occasion"},
	{ID: "cat-bouquets", Name: "Bouquets", Slug: "bouquets", Description: "Hand-tied mixed bouquets"},
	{ID: "cat-sunflowers", Name: "Sunflowers", Slug: "sunflowers", Description: "Bright and cheerful"},
}

var addOns = []domain.AddOn{
	{ID: "addon-card", Name: "Greeting Card", Price: 50, Customizable: true},
	{ID: "addon-chocolates", Name: "Chocolate Box", Price: 350},
	{ID: "addon-balloon", Name: "Balloon", Price: 150, Customizable: true},
	{ID: "addon-bear", Name: "Teddy Bear", Price: 499},
}

var products = []domain.Product{
	{
		ID:          "prod-red-roses",
		Name:        "Dozen Red Roses",
		Slug:        "dozen-red-roses",
		Price:       1500,
		Category:    "cat-roses",
		Description: "Twelve long-stem red roses wrapped in kraft paper",
		AddOnIDs:    []string{"addon-card", "addon-chocolates", "addon-bear"},
	},
	{
		ID:          "prod-pink-roses",
		Name:        "Pink Roses Bouquet",
		Slug:        "pink-roses-bouquet",
		Price:       1200,
		Category:    "cat-roses",
		Description: "Soft pink roses with baby's breath",
		AddOnIDs:    []string{"addon-card", "addon-balloon"},
	},
	{
		ID:          "prod-sunny-day",
		Name:        "Sunny Day Sunflowers",
		Slug:        "sunny-day-sunflowers",
		Price:       500,
		Category:    "cat-sunflowers",
		Description: "Three sunflowers with seasonal greens",
		AddOnIDs:    []string{"addon-card"},
	},
	{
		ID:          "prod-garden-mix",
		Name:        "Garden Mix Bouquet",
		Slug:        "garden-mix-bouquet",
		Price:       950,
		Category:    "cat-bouquets",
		Description: "Seasonal blooms picked by our florists",
		AddOnIDs:    []string{"addon-card", "addon-chocolates", "addon-balloon"},
	},
}

// Apply upserts demo categories, add-ons, products and two accounts. It is idempotent.
func Apply(ctx context.Context, s Stores, acc Accounts) error {
	for _, c := range categories {
		if _, err := s.Categories.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
	}
	for _, a := range addOns {
		if _, err := s.AddOns.Upsert(ctx, a); err != nil {
			return fmt.Errorf("upsert add-on %s: %w", a.ID, err)
		}
	}
	for _, p := range products {
		if _, err := s.Products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	users := []struct {
		id, name, email, password, role string
	}{
		{"user-admin", "Store Admin", acc.AdminEmail, acc.AdminPassword, domain.RoleAdmin},
		{"user-customer", "Demo Customer", acc.CustomerEmail, acc.CustomerPassword, domain.RoleCustomer},
	}
	for _, u := range users {
		if u.email == "" {
			continue
		}
		hash, err := authsvc.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.email, err)
		}
		_, err = s.Users.Upsert(ctx, domain.User{
			ID:           u.id,
			Name:         u.name,
			Email:        u.email,
			PasswordHash: hash,
			Role:         u.role,
		})
		if err != nil {
			return fmt.Errorf("upsert user %s: %w", u.email, err)
		}
	}
	return nil
}
