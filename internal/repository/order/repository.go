package order

import (
	"context"
	"time"

	"flowershop/internal/domain"
)

// StatusUpdate is a partial write of the workflow fields. An empty ApprovedBy
// and nil timestamps leave the stored values unchanged.
type StatusUpdate struct {
	Status      domain.OrderStatus
	ApprovedBy  string
	ApprovedAt  *time.Time
	CompletedAt *time.Time
}

// Repository persists and fetches orders. Returned orders are unresolved:
// product, add-on and user references hold IDs only.
type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus writes only the status fields. Items, totals and receipt fields are untouched.
	UpdateStatus(ctx context.Context, id string, u StatusUpdate) error
	// UpdateReceipt sets the receipt pointer and cached HTML. Empty values leave the stored field unchanged.
	UpdateReceipt(ctx context.Context, id, pointer, html string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// ListAll returns every order, newest first.
	ListAll(ctx context.Context) ([]domain.Order, error)
}
