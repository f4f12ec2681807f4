package models

// MenuItem is a dish offered on the menu.
// Items are immutable once added to the catalog.
type MenuItem struct {
	Name        string   `json:"name"`
	Description string   `json:"desc"`
	Price       Money    `json:"price"`
	Category    Category `json:"category,omitempty"`
}

// MenuSnapshot is the persisted shape of the catalog
type MenuSnapshot struct {
	Starters []MenuItem `json:"Starters"`
	Mains    []MenuItem `json:"Mains"`
	Desserts []MenuItem `json:"Desserts"`
}

// Bucket returns the slice for c, or nil for unknown categories
func (s *MenuSnapshot) Bucket(c Category) *[]MenuItem {
	switch c {
	case CategoryStarters:
		return &s.Starters
	case CategoryMains:
		return &s.Mains
	case CategoryDesserts:
		return &s.Desserts
	}
	return nil
}
