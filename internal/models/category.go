package models

import (
	"errors"
	"strings"
)

// Category partitions the menu and the cart
type Category string

const (
	CategoryStarters Category = "Starters"
	CategoryMains    Category = "Mains"
	CategoryDesserts Category = "Desserts"

	// CategoryAll is only meaningful as a filter
	CategoryAll Category = "All"
)

var ErrInvalidCategory = errors.New("invalid category")

// Categories lists the real categories in display order
var Categories = []Category{CategoryStarters, CategoryMains, CategoryDesserts}

// ParseCategory accepts plural and singular names in any case
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "starters", "starter":
		return CategoryStarters, nil
	case "mains", "main":
		return CategoryMains, nil
	case "desserts", "dessert":
		return CategoryDesserts, nil
	}
	return "", ErrInvalidCategory
}

// ParseFilter is like ParseCategory but also accepts "All".
// An empty string means All.
func ParseFilter(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, nil
	}
	return ParseCategory(s)
}

// Matches reports whether c passes the filter f
func (c Category) Matches(f Category) bool {
	return f == CategoryAll || c == f
}
