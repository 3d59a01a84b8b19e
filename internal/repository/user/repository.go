package user

import (
	"context"

	"flowershop/internal/domain"
)

// Repository reads and writes user accounts. Emails are matched case-insensitively.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Upsert creates the user or updates name, role and password of the account with the same email.
	Upsert(ctx context.Context, u domain.User) (*domain.User, error)
}
