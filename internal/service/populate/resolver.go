// Package populate joins catalog and user references into orders on read.
package populate

import (
	"context"
	"errors"
	"fmt"

	"flowershop/internal/domain"
)

type ProductReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type AddOnReader interface {
	GetByID(ctx context.Context, id string) (*domain.AddOn, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Resolver fills Product, AddOn and User pointers. Dangling references stay nil.
type Resolver struct {
	products ProductReader
	addOns   AddOnReader
	users    UserReader
}

func New(products ProductReader, addOns AddOnReader, users UserReader) *Resolver {
	return &Resolver{products: products, addOns: addOns, users: users}
}

// Order resolves a single order in place.
func (r *Resolver) Order(ctx context.Context, o *domain.Order) error {
	return r.resolve(ctx, newMemo(), o)
}

// Orders resolves a batch in place, looking each reference up once.
func (r *Resolver) Orders(ctx context.Context, orders []domain.Order) error {
	m := newMemo()
	for i := range orders {
		if err := r.resolve(ctx, m, &orders[i]); err != nil {
			return err
		}
	}
	return nil
}

type memo struct {
	products map[string]*domain.Product
	addOns   map[string]*domain.AddOn
	users    map[string]*domain.User
}

func newMemo() *memo {
	return &memo{
		products: make(map[string]*domain.Product),
		addOns:   make(map[string]*domain.AddOn),
		users:    make(map[string]*domain.User),
	}
}

func (r *Resolver) resolve(ctx context.Context, m *memo, o *domain.Order) error {
	if o.UserID != "" && r.users != nil {
		u, err := lookup(ctx, m.users, o.UserID, r.users.GetByID)
		if err != nil {
			return fmt.Errorf("resolve user %s: %w", o.UserID, err)
		}
		o.User = u
	}
	for i := range o.Items {
		it := &o.Items[i]
		if it.ProductID != "" && r.products != nil {
			p, err := lookup(ctx, m.products, it.ProductID, r.products.GetByID)
			if err != nil {
				return fmt.Errorf("resolve product %s: %w", it.ProductID, err)
			}
			it.Product = p
		}
		for j := range it.AddOns {
			a := &it.AddOns[j]
			if a.AddOnID == "" || r.addOns == nil {
				continue
			}
			resolved, err := lookup(ctx, m.addOns, a.AddOnID, r.addOns.GetByID)
			if err != nil {
				return fmt.Errorf("resolve add-on %s: %w", a.AddOnID, err)
			}
			a.AddOn = resolved
		}
	}
	return nil
}

func lookup[T any](ctx context.Context, cache map[string]*T, id string, get func(context.Context, string) (*T, error)) (*T, error) {
	if v, ok := cache[id]; ok {
		return v, nil
	}
	v, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cache[id] = nil
			return nil, nil
		}
		return nil, err
	}
	cache[id] = v
	return v, nil
}
