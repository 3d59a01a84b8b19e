package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"flowershop/internal/domain"
	"flowershop/internal/migrate"
	addonrepo "flowershop/internal/repository/addon"
	categoryrepo "flowershop/internal/repository/category"
	productrepo "flowershop/internal/repository/product"
	"flowershop/internal/service/catalog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestProductsHandler_IntegrationFiltersByCategory(t *testing.T) {
	ctx := context.Background()
	pool := catalogPool(ctx, t)
	defer pool.Close()
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetCatalogTables(ctx, t, pool)

	categories := categoryrepo.NewPostgres(pool, nil)
	products := productrepo.NewPostgres(pool, nil)
	addOns := addonrepo.NewPostgres(pool, nil)

	roses, err := categories.Upsert(ctx, domain.Category{ID: "c-roses", Name: "Roses", Slug: "roses"})
	if err != nil {
		t.Fatalf("upsert category: %v", err)
	}
	for _, p := range []domain.Product{
		{ID: "p-1", Name: "Red Roses", Slug: "red-roses", Price: 1500, Category: roses.ID},
		{ID: "p-2", Name: "Pink Roses", Slug: "pink-roses", Price: 1200, Category: roses.ID},
		{ID: "p-3", Name: "Sunflowers", Slug: "sunflowers", Price: 900, Category: "c-sun"},
	} {
		if _, err := products.Upsert(ctx, p); err != nil {
			t.Fatalf("upsert product %s: %v", p.Slug, err)
		}
	}

	gin.SetMode(gin.TestMode)
	deps := testDeps()
	deps.CatalogSvc = catalog.New(products, categories, addOns)
	router, err := buildRouter(logDiscard(), pool.Ping, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	rec := doRequest(router, http.MethodGet, "/api/products?categories=roses&sort=price_asc", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var list []domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(list) != 2 || list[0].ID != "p-2" || list[1].ID != "p-1" {
		t.Fatalf("unexpected products %+v", list)
	}

	if rec := doRequest(router, http.MethodGet, "/readyz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected ready, got %d", rec.Code)
	}
}

func catalogPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("ping db: %v", err)
	}
	return pool
}

func resetCatalogTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE orders, products, categories, add_ons, users`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
