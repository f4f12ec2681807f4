// Package postgres provides a PostgreSQL-backed archive.Repository on pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/archive"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id          BIGSERIAL PRIMARY KEY,
    order_id    TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    email       TEXT NOT NULL,
    phone       TEXT NOT NULL,
    address     TEXT NOT NULL,
    promo_code  TEXT NOT NULL DEFAULT '',
    subtotal    NUMERIC(12,2) NOT NULL,
    discount    NUMERIC(12,2) NOT NULL,
    tax         NUMERIC(12,2) NOT NULL,
    total       NUMERIC(12,2) NOT NULL,
    lines       JSONB NOT NULL DEFAULT '[]',
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
`

type Repository struct {
	pool *pgxpool.Pool
}

var _ archive.Repository = (*Repository)(nil)

// Open connects to dsn, pings it and applies the schema
func Open(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: apply schema: %w", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// Save appends a confirmed order
func (r *Repository) Save(ctx context.Context, order *models.Order) error {
	row, err := archive.NewRow(order)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO orders
			(order_id, name, email, phone, address, promo_code, subtotal, discount, tax, total, lines, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric, $9::numeric, $10::numeric, $11::jsonb, $12)`

	_, err = r.pool.Exec(ctx, q,
		row.OrderID,
		row.Name,
		row.Email,
		row.Phone,
		row.Address,
		row.PromoCode,
		row.Subtotal,
		row.Discount,
		row.Tax,
		row.Total,
		row.Lines,
		order.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("postgres: save order %q: %w", order.ID, err)
	}
	return nil
}
