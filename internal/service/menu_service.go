package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/menu"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/storage"
)

// MenuService handles the proposed menu and its persisted copy
type MenuService struct {
	catalog *menu.Catalog
	store   *storage.Store
	log     *slog.Logger
}

// NewMenuService creates a new menu service
func NewMenuService(catalog *menu.Catalog, store *storage.Store, log *slog.Logger) *MenuService {
	return &MenuService{
		catalog: catalog,
		store:   store,
		log:     log,
	}
}

// Mount starts a fresh proposal: the persisted menu is dropped and the
// catalog emptied
func (s *MenuService) Mount(ctx context.Context) {
	s.store.Remove(ctx, storage.KeyProposedMenu)
	s.catalog.Reset()
	s.log.InfoContext(ctx, "proposed menu cleared")
}

// Reload replaces the catalog with the persisted menu, or empties it when
// nothing is stored. Read failures leave the catalog untouched.
func (s *MenuService) Reload(ctx context.Context) error {
	var snap models.MenuSnapshot
	err := s.store.LoadJSON(ctx, storage.KeyProposedMenu, &snap)
	switch {
	case err == nil:
		s.catalog.Restore(snap)
	case errors.Is(err, storage.ErrNotFound):
		s.catalog.Reset()
	default:
		return err
	}
	return nil
}

// Add appends a dish and saves the menu
func (s *MenuService) Add(ctx context.Context, category models.Category, name, desc, priceText string) (models.MenuItem, error) {
	item, err := s.catalog.Add(category, name, desc, priceText)
	if err != nil {
		return models.MenuItem{}, err
	}
	s.store.SaveJSON(ctx, storage.KeyProposedMenu, s.catalog.List())

	s.log.InfoContext(ctx, "menu item added", "category", category, "name", item.Name, "price", item.Price.String())
	return item, nil
}

// Remove deletes a dish and saves the menu
func (s *MenuService) Remove(ctx context.Context, category models.Category, index int) error {
	if err := s.catalog.Remove(category, index); err != nil {
		return err
	}
	s.store.SaveJSON(ctx, storage.KeyProposedMenu, s.catalog.List())
	return nil
}

func (s *MenuService) List() models.MenuSnapshot {
	return s.catalog.List()
}

// Listing returns the menu screen for filter
func (s *MenuService) Listing(filter models.Category) menu.Listing {
	return menu.NewListing(s.catalog.List(), filter)
}
