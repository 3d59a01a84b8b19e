package order

import (
	"context"
	"os"
	"testing"
	"time"

	"flowershop/internal/domain"
	"flowershop/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_CreateGetUpdateStatus(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, sampleOrder("o-1", "u-1", time.Now().UTC()))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != domain.StatusPending || len(created.Items) != 1 || len(created.Items[0].AddOns) != 1 {
		t.Fatalf("unexpected created order %+v", created)
	}
	if created.Items[0].Product != nil {
		t.Fatalf("expected resolved product to be dropped")
	}

	if _, err := repo.Create(ctx, sampleOrder("o-1", "u-1", time.Now().UTC())); err != domain.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	if err := repo.UpdateReceipt(ctx, "o-1", "/uploads/receipts/o-1/receipt.pdf", "<html>ORDER RECEIPT</html>"); err != nil {
		t.Fatalf("UpdateReceipt: %v", err)
	}
	now := time.Now().UTC()
	if err := repo.UpdateStatus(ctx, "o-1", StatusUpdate{Status: domain.StatusApproved, ApprovedBy: "admin-1", ApprovedAt: &now}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := repo.UpdateStatus(ctx, "o-1", StatusUpdate{Status: domain.StatusCompleted, CompletedAt: &now}); err != nil {
		t.Fatalf("UpdateStatus completed: %v", err)
	}

	got, err := repo.GetByID(ctx, "o-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.StatusCompleted || got.ApprovedBy != "admin-1" || got.ApprovedAt == nil || got.CompletedAt == nil {
		t.Fatalf("unexpected updated order %+v", got)
	}
	if got.Receipt != "/uploads/receipts/o-1/receipt.pdf" || got.ReceiptHTML == "" {
		t.Fatalf("status update dropped receipt fields: %+v", got)
	}
	if got.Items[0].AddOns[0].Price != 50 {
		t.Fatalf("unexpected add-on price %v", got.Items[0].AddOns[0].Price)
	}

	if _, err := repo.GetByID(ctx, "missing"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateStatus(ctx, "missing", StatusUpdate{Status: domain.StatusPending}); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestPostgres_UpdateReceiptKeepsEmptyFields(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	if _, err := repo.Create(ctx, sampleOrder("o-1", "u-1", time.Now().UTC())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.UpdateReceipt(ctx, "o-1", "/uploads/receipts/o-1/receipt.pdf", "<html>ORDER RECEIPT</html>"); err != nil {
		t.Fatalf("UpdateReceipt: %v", err)
	}
	if err := repo.UpdateReceipt(ctx, "o-1", "", "<html>ORDER RECEIPT v2</html>"); err != nil {
		t.Fatalf("UpdateReceipt html only: %v", err)
	}
	got, err := repo.GetByID(ctx, "o-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Receipt != "/uploads/receipts/o-1/receipt.pdf" || got.ReceiptHTML != "<html>ORDER RECEIPT v2</html>" {
		t.Fatalf("unexpected receipt fields %q %q", got.Receipt, got.ReceiptHTML)
	}
	if err := repo.UpdateReceipt(ctx, "missing", "x", ""); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"o-1", "o-2", "o-3"} {
		user := "u-1"
		if id == "o-2" {
			user = "u-2"
		}
		if _, err := repo.Create(ctx, sampleOrder(id, user, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 || all[0].ID != "o-3" || all[2].ID != "o-1" {
		t.Fatalf("unexpected order %v", ids(all))
	}

	mine, err := repo.ListByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != "o-3" {
		t.Fatalf("unexpected user orders %v", ids(mine))
	}

	none, err := repo.ListByUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListByUser empty: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", none)
	}
}

func sampleOrder(id, userID string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:            id,
		UserID:        userID,
		Total:         1155,
		Status:        domain.StatusPending,
		RecipientName: "Maria",
		Address:       "Manila",
		CreatedAt:     createdAt,
		Items: []domain.LineItem{{
			ProductID: "p-1",
			Quantity:  2,
			Price:     500,
			Product:   &domain.Product{ID: "p-1", Name: "Roses"},
			AddOns: []domain.AddOnSelection{{
				AddOnID:  "a-1",
				Quantity: 1,
				Price:    50,
				AddOn:    &domain.AddOn{ID: "a-1", Name: "Card"},
			}},
		}},
	}
}

func ids(orders []domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE orders, products, categories, add_ons, users`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
