package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"flowershop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, user_id, items, total::float8, status,
       delivery_date, delivery_time, sender_name, sender_phone, recipient_name, recipient_phone,
       address, message_card, special_instructions,
       receipt, receipt_html, approved_by, approved_at, completed_at, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	itemsJSON, err := json.Marshal(o.Unresolved())
	if err != nil {
		return nil, err
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	const q = `
INSERT INTO orders (
    id, user_id, items, total, status,
    delivery_date, delivery_time, sender_name, sender_phone, recipient_name, recipient_phone,
    address, message_card, special_instructions,
    receipt, receipt_html, approved_by, approved_at, completed_at, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
RETURNING ` + orderColumns

	got, err := r.scanOrder(r.pool.QueryRow(ctx, q,
		o.ID, o.UserID, itemsJSON, o.Total, string(o.Status),
		o.DeliveryDate, o.DeliveryTime, o.SenderName, o.SenderPhone, o.RecipientName, o.RecipientPhone,
		o.Address, o.MessageCard, o.SpecialInstructions,
		o.Receipt, o.ReceiptHTML, o.ApprovedBy, o.ApprovedAt, o.CompletedAt, o.CreatedAt,
	))
	if err != nil {
		r.logger.Printf("order repo: create id=%s error=%v", o.ID, err)
		return nil, err
	}
	return got, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 LIMIT 1`
	return r.scanOrder(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, u StatusUpdate) error {
	const q = `
UPDATE orders
SET status = $2,
    approved_by = CASE WHEN $3::text = '' THEN approved_by ELSE $3::text END,
    approved_at = COALESCE($4::timestamptz, approved_at),
    completed_at = COALESCE($5::timestamptz, completed_at)
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, q, id, string(u.Status), u.ApprovedBy, u.ApprovedAt, u.CompletedAt)
	if err != nil {
		r.logger.Printf("order repo: update status id=%s status=%s error=%v", id, u.Status, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UpdateReceipt(ctx context.Context, id, pointer, html string) error {
	const q = `
UPDATE orders
SET receipt = CASE WHEN $2::text = '' THEN receipt ELSE $2::text END,
    receipt_html = CASE WHEN $3::text = '' THEN receipt_html ELSE $3::text END
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, q, id, pointer, html)
	if err != nil {
		r.logger.Printf("order repo: update receipt id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.list(ctx, q)
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Order, 0)
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("order repo: list rows error=%v", err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o         domain.Order
		status    string
		itemsJSON []byte
	)
	err := row.Scan(
		&o.ID, &o.UserID, &itemsJSON, &o.Total, &status,
		&o.DeliveryDate, &o.DeliveryTime, &o.SenderName, &o.SenderPhone, &o.RecipientName, &o.RecipientPhone,
		&o.Address, &o.MessageCard, &o.SpecialInstructions,
		&o.Receipt, &o.ReceiptHTML, &o.ApprovedBy, &o.ApprovedAt, &o.CompletedAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: scan error=%v", err)
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			r.logger.Printf("order repo: decode items id=%s err=%v", o.ID, err)
			return nil, err
		}
	}
	return &o, nil
}
