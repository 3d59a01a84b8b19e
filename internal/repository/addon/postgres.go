package addon

import (
	"context"
	"errors"
	"io"
	"log"

	"flowershop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.AddOn, error) {
	const q = `SELECT id, name, price::float8, image, customizable FROM add_ons WHERE id = $1 LIMIT 1`
	var a domain.AddOn
	err := r.pool.QueryRow(ctx, q, id).Scan(&a.ID, &a.Name, &a.Price, &a.Image, &a.Customizable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("addon repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.AddOn, error) {
	const q = `SELECT id, name, price::float8, image, customizable FROM add_ons ORDER BY name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("addon repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.AddOn, 0)
	for rows.Next() {
		var a domain.AddOn
		if err := rows.Scan(&a.ID, &a.Name, &a.Price, &a.Image, &a.Customizable); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, a domain.AddOn) (*domain.AddOn, error) {
	const q = `
INSERT INTO add_ons (id, name, price, image, customizable)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    price = EXCLUDED.price,
    image = EXCLUDED.image,
    customizable = EXCLUDED.customizable
RETURNING id, name, price::float8, image, customizable
`
	var out domain.AddOn
	err := r.pool.QueryRow(ctx, q, a.ID, a.Name, a.Price, a.Image, a.Customizable).
		Scan(&out.ID, &out.Name, &out.Price, &out.Image, &out.Customizable)
	if err != nil {
		r.logger.Printf("addon repo: upsert id=%s error=%v", a.ID, err)
		return nil, err
	}
	return &out, nil
}
