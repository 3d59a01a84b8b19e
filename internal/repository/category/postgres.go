package category

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"flowershop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `id, name, slug, description, banner_image, created_at`

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("category repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.BannerImage, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1 LIMIT 1`
	var c domain.Category
	err := r.pool.QueryRow(ctx, q, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.BannerImage, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("category repo: get slug=%s error=%v", slug, err)
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	const q = `
INSERT INTO categories (id, name, slug, description, banner_image, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    description = COALESCE(NULLIF(EXCLUDED.description, ''), categories.description),
    banner_image = COALESCE(NULLIF(EXCLUDED.banner_image, ''), categories.banner_image)
RETURNING ` + categoryColumns
	var out domain.Category
	err := r.pool.QueryRow(ctx, q, c.ID, c.Name, c.Slug, c.Description, c.BannerImage, c.CreatedAt).
		Scan(&out.ID, &out.Name, &out.Slug, &out.Description, &out.BannerImage, &out.CreatedAt)
	if err != nil {
		r.logger.Printf("category repo: upsert slug=%s error=%v", c.Slug, err)
		return nil, err
	}
	return &out, nil
}
