// Package catalog serves the read-only storefront catalog.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"flowershop/internal/domain"
	addonrepo "flowershop/internal/repository/addon"
	categoryrepo "flowershop/internal/repository/category"
	productrepo "flowershop/internal/repository/product"
)

// Sort orders for ListProducts.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortAlphaAsc  = "alpha_asc"
	SortAlphaDesc = "alpha_desc"
)

type Service struct {
	products   productrepo.Repository
	categories categoryrepo.Repository
	addOns     addonrepo.Repository
}

func New(products productrepo.Repository, categories categoryrepo.Repository, addOns addonrepo.Repository) *Service {
	return &Service{products: products, categories: categories, addOns: addOns}
}

// ProductQuery filters ListProducts. Zero values return everything newest first.
type ProductQuery struct {
	CategorySlug string
	Sort         string
}

// ListProducts returns products in the category named by slug, sorted as requested.
// An unknown slug yields an empty list.
func (s *Service) ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	out := all
	if slug := strings.TrimSpace(q.CategorySlug); slug != "" {
		out = make([]domain.Product, 0, len(all))
		cat, err := s.categories.GetBySlug(ctx, slug)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return out, nil
		case err != nil:
			return nil, err
		}
		for _, p := range all {
			if p.Category == cat.ID {
				out = append(out, p)
			}
		}
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortAlphaAsc:
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	case SortAlphaDesc:
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) > strings.ToLower(out[j].Name) })
	}
	return out, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) ListAddOns(ctx context.Context) ([]domain.AddOn, error) {
	return s.addOns.List(ctx)
}

func (s *Service) GetAddOn(ctx context.Context, id string) (*domain.AddOn, error) {
	return s.addOns.GetByID(ctx, id)
}
