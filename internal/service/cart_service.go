package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/menu"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/storage"
)

// CategoryInfo is the item count and average price of one cart tab
type CategoryInfo struct {
	Category models.Category `json:"category"`
	Count    int             `json:"count"`
	Average  models.Money    `json:"average"`
}

// CartSummary is what the cart screen renders for one filter.
// Subtotal covers the filtered lines; AveragePrice is cart-wide.
type CartSummary struct {
	Category      models.Category   `json:"category"`
	Lines         []models.CartLine `json:"lines"`
	LineCount     int               `json:"lineCount"`
	CategoryCount int               `json:"categoryCount"`
	TotalItems    int               `json:"totalItems"`
	AveragePrice  models.Money      `json:"averagePrice"`
	Subtotal      models.Money      `json:"subtotal"`
	Categories    []CategoryInfo    `json:"categories"`
}

// CartService keeps the cart store and its persisted copy in step.
// The in-memory cart is the source of truth; after every mutation the
// cartItems key is rewritten, or removed once the cart is empty.
type CartService struct {
	cart    *cart.Store
	catalog *menu.Catalog
	store   *storage.Store
	log     *slog.Logger
}

// NewCartService creates a new cart service
func NewCartService(cartStore *cart.Store, catalog *menu.Catalog, store *storage.Store, log *slog.Logger) *CartService {
	return &CartService{
		cart:    cartStore,
		catalog: catalog,
		store:   store,
		log:     log,
	}
}

// AddFromMenu adds the dish at index within category as a new line
func (s *CartService) AddFromMenu(ctx context.Context, category models.Category, index int) (models.CartLine, error) {
	item, err := s.catalog.Get(category, index)
	if err != nil {
		return models.CartLine{}, err
	}
	item.Category = category

	line := s.cart.Add(item)
	s.persist(ctx)

	s.log.DebugContext(ctx, "added to cart", "line_id", line.ID, "name", line.Name, "category", line.Category)
	return line, nil
}

func (s *CartService) Increment(ctx context.Context, lineID string) error {
	if err := s.cart.Increment(lineID); err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

// Decrement lowers the quantity and drops the line at zero
func (s *CartService) Decrement(ctx context.Context, lineID string) error {
	if err := s.cart.Decrement(lineID); err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

func (s *CartService) Remove(ctx context.Context, lineID string) error {
	if err := s.cart.Remove(lineID); err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

func (s *CartService) Clear(ctx context.Context) {
	s.cart.Clear()
	s.persist(ctx)
}

func (s *CartService) Lines() []models.CartLine {
	return s.cart.Lines()
}

// Summary lists the lines passing filter with the cart-wide counters and
// a count and average for every tab, all taken from one snapshot
func (s *CartService) Summary(filter models.Category) CartSummary {
	all := s.cart.Lines()
	lines := cart.Filter(all, filter)

	tabs := append([]models.Category{models.CategoryAll}, models.Categories...)
	infos := make([]CategoryInfo, 0, len(tabs))
	for _, c := range tabs {
		infos = append(infos, CategoryInfo{
			Category: c,
			Count:    cart.Count(all, c),
			Average:  models.NewMoney(cart.Average(all, c).Round(2)),
		})
	}

	return CartSummary{
		Category:      filter,
		Lines:         lines,
		LineCount:     len(lines),
		CategoryCount: cart.Count(all, filter),
		TotalItems:    cart.Count(all, models.CategoryAll),
		AveragePrice:  models.NewMoney(cart.Average(all, models.CategoryAll).Round(2)),
		Subtotal:      models.NewMoney(cart.Subtotal(all, filter).Round(2)),
		Categories:    infos,
	}
}

// Reload replaces the cart with the persisted copy, or empties it when
// nothing is stored. An unreadable backend or a corrupt value leaves the
// in-memory cart as it is and the error is returned.
func (s *CartService) Reload(ctx context.Context) error {
	var lines []models.CartLine
	err := s.store.LoadJSON(ctx, storage.KeyCartItems, &lines)
	switch {
	case err == nil:
		s.cart.Restore(lines)
	case errors.Is(err, storage.ErrNotFound):
		s.cart.Clear()
	default:
		return err
	}
	return nil
}

func (s *CartService) persist(ctx context.Context) {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		s.store.Remove(ctx, storage.KeyCartItems)
		return
	}
	s.store.SaveJSON(ctx, storage.KeyCartItems, lines)
}
