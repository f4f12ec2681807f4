// Package checkout turns a filled cart and a delivery form into a
// confirmed order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/archive"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/pricing"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/storage"
)

var (
	ErrEmptyCart    = errors.New("your cart is empty")
	ErrInvalidPromo = errors.New("the promo code you entered is not valid")
)

// State of the checkout screen
type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateRejected   State = "rejected"
	StateConfirmed  State = "confirmed"
)

// PromoLookup resolves a code to its discount percent
type PromoLookup interface {
	Lookup(code string) (int, bool)
}

type Flow struct {
	mu      sync.Mutex
	state   State
	cart    *cart.Store
	pricing *pricing.Engine
	promos  PromoLookup
	store   *storage.Store
	archive archive.Repository
	log     *slog.Logger
	now     func() time.Time
}

// NewFlow wires the checkout. repo may be nil when no archive is configured.
func NewFlow(
	cartStore *cart.Store,
	engine *pricing.Engine,
	promos PromoLookup,
	store *storage.Store,
	repo archive.Repository,
	log *slog.Logger,
) *Flow {
	return &Flow{
		state:   StateEditing,
		cart:    cartStore,
		pricing: engine,
		promos:  promos,
		store:   store,
		archive: repo,
		log:     log,
		now:     time.Now,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// ApplyPromo reports the percent a code grants. An empty code is not an
// error and grants nothing.
func (f *Flow) ApplyPromo(code string) (int, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, nil
	}

	percent, ok := f.promos.Lookup(code)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPromo, code)
	}
	return percent, nil
}

// Submit validates the form against the current cart and confirms the
// order. On success lastOrder is persisted, the order is archived and the
// submitted lines leave the cart; lines added meanwhile stay. Storage and
// archive failures are logged and do not block confirmation.
func (f *Flow) Submit(ctx context.Context, form models.Customer, promoCode string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := f.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	f.state = StateValidating
	if err := Validate(form, lines); err != nil {
		f.state = StateRejected
		return nil, err
	}

	promoCode = strings.TrimSpace(promoCode)
	totals := f.pricing.Quote(lines, promoCode)

	order := &models.Order{
		ID:        uuid.NewString(),
		Lines:     lines,
		Customer:  form,
		PromoCode: promoCode,
		Subtotal:  totals.Subtotal,
		Discount:  totals.Discount,
		Tax:       totals.Tax,
		Total:     totals.Total,
		CreatedAt: f.now().UTC(),
	}

	f.store.SaveJSON(ctx, storage.KeyLastOrder, order)

	if f.archive != nil {
		if err := f.archive.Save(ctx, order); err != nil {
			f.log.WarnContext(ctx, "order archive failed", "order_id", order.ID, "error", err)
		}
	}

	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	if left := f.cart.RemoveLines(ids); len(left) > 0 {
		f.store.SaveJSON(ctx, storage.KeyCartItems, left)
	} else {
		f.store.Remove(ctx, storage.KeyCartItems)
	}

	f.state = StateConfirmed
	f.log.InfoContext(ctx, "order confirmed",
		"order_id", order.ID,
		"items", len(order.Lines),
		"total", order.Total.String(),
	)

	return order, nil
}
