package menu

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
)

// MaxItemsPerCategory caps how many dishes the admin may propose per category
const MaxItemsPerCategory = 2

var (
	ErrMissingFields = errors.New("please fill in all fields to add a meal")
	ErrCategoryFull  = errors.New("category is full")
	ErrItemNotFound  = errors.New("menu item not found")
)

// Catalog is the admin-editable menu
type Catalog struct {
	mu   sync.RWMutex
	menu models.MenuSnapshot
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add validates the admin form and appends a dish to category.
// The catalog is left unchanged on any error.
func (c *Catalog) Add(category models.Category, name, desc, priceText string) (models.MenuItem, error) {
	name = strings.TrimSpace(name)
	desc = strings.TrimSpace(desc)
	priceText = strings.TrimSpace(priceText)
	if name == "" || desc == "" || priceText == "" {
		return models.MenuItem{}, ErrMissingFields
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bucket := c.menu.Bucket(category)
	if bucket == nil {
		return models.MenuItem{}, models.ErrInvalidCategory
	}
	if len(*bucket) >= MaxItemsPerCategory {
		return models.MenuItem{}, fmt.Errorf("%w: only %d meals allowed in %s", ErrCategoryFull, MaxItemsPerCategory, category)
	}

	item := models.MenuItem{
		Name:        name,
		Description: desc,
		Price:       models.ParseMoney(priceText),
		Category:    category,
	}
	*bucket = append(*bucket, item)
	return item, nil
}

// Remove deletes the dish at index within category
func (c *Catalog) Remove(category models.Category, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket := c.menu.Bucket(category)
	if bucket == nil {
		return models.ErrInvalidCategory
	}
	if index < 0 || index >= len(*bucket) {
		return ErrItemNotFound
	}

	items := make([]models.MenuItem, 0, len(*bucket)-1)
	items = append(items, (*bucket)[:index]...)
	*bucket = append(items, (*bucket)[index+1:]...)
	return nil
}

// Get returns the dish at index within category
func (c *Catalog) Get(category models.Category, index int) (models.MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bucket := c.menu.Bucket(category)
	if bucket == nil {
		return models.MenuItem{}, models.ErrInvalidCategory
	}
	if index < 0 || index >= len(*bucket) {
		return models.MenuItem{}, ErrItemNotFound
	}
	return (*bucket)[index], nil
}

// List returns a copy of the whole menu
func (c *Catalog) List() models.MenuSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return models.MenuSnapshot{
		Starters: append([]models.MenuItem{}, c.menu.Starters...),
		Mains:    append([]models.MenuItem{}, c.menu.Mains...),
		Desserts: append([]models.MenuItem{}, c.menu.Desserts...),
	}
}

// Reset empties every category
func (c *Catalog) Reset() {
	c.mu.Lock()
	c.menu = models.MenuSnapshot{}
	c.mu.Unlock()
}

// Restore loads a persisted snapshot. Categories are re-stamped from the
// bucket each item sits in and anything past the cap is dropped.
func (c *Catalog) Restore(snap models.MenuSnapshot) {
	var menu models.MenuSnapshot
	for _, cat := range models.Categories {
		src := *snap.Bucket(cat)
		dst := menu.Bucket(cat)
		for _, item := range src {
			if len(*dst) == MaxItemsPerCategory {
				break
			}
			item.Category = cat
			*dst = append(*dst, item)
		}
	}

	c.mu.Lock()
	c.menu = menu
	c.mu.Unlock()
}
