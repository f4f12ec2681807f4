package service

import (
	"context"
	"log/slog"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/storage"
)

// Session owns the process-wide startup policy
type Session struct {
	carts *CartService
	menus *MenuService
	store *storage.Store
	log   *slog.Logger
}

// NewSession creates a new session
func NewSession(carts *CartService, menus *MenuService, store *storage.Store, log *slog.Logger) *Session {
	return &Session{
		carts: carts,
		menus: menus,
		store: store,
		log:   log,
	}
}

// Start begins a fresh session. Any persisted cart is discarded before
// anything reads it; the proposed menu carries over.
func (s *Session) Start(ctx context.Context) {
	s.store.Remove(ctx, storage.KeyCartItems)
	if err := s.carts.Reload(ctx); err != nil {
		s.log.WarnContext(ctx, "cart reload failed, keeping in-memory cart", "error", err)
	}
	if err := s.menus.Reload(ctx); err != nil {
		s.log.WarnContext(ctx, "menu reload failed, keeping in-memory menu", "error", err)
	}

	s.log.InfoContext(ctx, "cart reset on start, new session initialized")
}
