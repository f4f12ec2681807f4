// Package sqlite provides a SQLite-backed archive.Repository.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/archive"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"

	// pure-Go driver, no CGO
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id    TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    email       TEXT NOT NULL,
    phone       TEXT NOT NULL,
    address     TEXT NOT NULL,
    promo_code  TEXT NOT NULL DEFAULT '',
    subtotal    TEXT NOT NULL,
    discount    TEXT NOT NULL,
    tax         TEXT NOT NULL,
    total       TEXT NOT NULL,
    -- JSON array of cart lines
    lines       TEXT NOT NULL DEFAULT '[]',
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
`

type Repository struct {
	db *sql.DB
}

var _ archive.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path in WAL mode and applies
// the schema.
//
//	repo, err := sqlite.Open("./data/orders.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
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
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, q,
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
		row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: save order %q: %w", order.ID, err)
	}
	return nil
}
