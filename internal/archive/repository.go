// Package archive keeps an append-only record of confirmed orders.
//
// The archive is write-only from the app's point of view: the latest order
// is still read from the persisted "lastOrder" key, and nothing queries the
// archive back.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
)

// Repository persists confirmed orders
type Repository interface {
	Save(ctx context.Context, order *models.Order) error
	Close() error
}

// Row is the flattened form both backends insert
type Row struct {
	OrderID   string
	Name      string
	Email     string
	Phone     string
	Address   string
	PromoCode string
	Subtotal  string
	Discount  string
	Tax       string
	Total     string
	Lines     string
	CreatedAt string
}

// NewRow flattens an order. Money columns are fixed two-decimal text and
// the lines are stored as their JSON encoding.
func NewRow(order *models.Order) (Row, error) {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return Row{}, fmt.Errorf("archive: encode lines for %q: %w", order.ID, err)
	}

	return Row{
		OrderID:   order.ID,
		Name:      order.Name,
		Email:     order.Email,
		Phone:     order.Phone,
		Address:   order.Address,
		PromoCode: order.PromoCode,
		Subtotal:  order.Subtotal.String(),
		Discount:  order.Discount.String(),
		Tax:       order.Tax.String(),
		Total:     order.Total.String(),
		Lines:     string(lines),
		CreatedAt: order.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	}, nil
}
