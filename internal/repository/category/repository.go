package category

import (
	"context"

	"flowershop/internal/domain"
)

// Repository reads and writes storefront categories.
type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	// Upsert inserts or updates the category with the same slug, keeping its original ID.
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}
