package addon

import (
	"context"

	"flowershop/internal/domain"
)

// Repository reads and writes the add-on catalog.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.AddOn, error)
	List(ctx context.Context) ([]domain.AddOn, error)
	Upsert(ctx context.Context, a domain.AddOn) (*domain.AddOn, error)
}
