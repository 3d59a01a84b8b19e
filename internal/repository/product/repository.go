package product

import (
	"context"

	"flowershop/internal/domain"
)

// Repository reads and writes the product catalog.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// Upsert inserts or updates the product with the same slug, keeping its original ID.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
