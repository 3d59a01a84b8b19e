package product

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"flowershop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, slug, price::float8, images, category, description, add_on_ids, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1 LIMIT 1`
	p, err := r.scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
	}
	return p, err
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	images, err := json.Marshal(nonNil(p.Images))
	if err != nil {
		return nil, err
	}
	addOns, err := json.Marshal(nonNil(p.AddOnIDs))
	if err != nil {
		return nil, err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	const q = `
INSERT INTO products (id, name, slug, price, images, category, description, add_on_ids, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    price = EXCLUDED.price,
    images = EXCLUDED.images,
    category = EXCLUDED.category,
    description = EXCLUDED.description,
    add_on_ids = EXCLUDED.add_on_ids
RETURNING ` + productColumns

	out, err := r.scanProduct(r.pool.QueryRow(ctx, q, p.ID, p.Name, p.Slug, p.Price, images, p.Category, p.Description, addOns, p.CreatedAt))
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", p.Slug, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p              domain.Product
		images, addOns []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Price, &images, &p.Category, &p.Description, &addOns, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, err
		}
	}
	if len(addOns) > 0 {
		if err := json.Unmarshal(addOns, &p.AddOnIDs); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
