package menu

import (
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
	"github.com/shopspring/decimal"
)

// CategoryStats is the header of one menu column
type CategoryStats struct {
	Category   models.Category `json:"category"`
	Count      int             `json:"count"`
	PriceRange models.Money    `json:"priceRange"`
}

// Listing is the menu screen for one filter, built from a single snapshot
type Listing struct {
	Category   models.Category     `json:"category"`
	Menu       models.MenuSnapshot `json:"menu"`
	Items      []models.MenuItem   `json:"items"`
	Categories []CategoryStats     `json:"categories"`
}

// NewListing derives the filtered items and column stats from snap.
// Columns hidden by the filter report zero.
func NewListing(snap models.MenuSnapshot, filter models.Category) Listing {
	listing := Listing{
		Category:   filter,
		Menu:       snap,
		Items:      []models.MenuItem{},
		Categories: make([]CategoryStats, 0, len(models.Categories)),
	}

	for _, cat := range models.Categories {
		stats := CategoryStats{Category: cat}
		if cat.Matches(filter) {
			items := *snap.Bucket(cat)
			listing.Items = append(listing.Items, items...)
			stats.Count = len(items)
			stats.PriceRange = priceRange(items)
		}
		listing.Categories = append(listing.Categories, stats)
	}
	return listing
}

// priceRange is max minus min price, zero for an empty column
func priceRange(items []models.MenuItem) models.Money {
	if len(items) == 0 {
		return models.Money{}
	}
	lo := items[0].Price.Decimal()
	hi := lo
	for _, item := range items[1:] {
		p := item.Price.Decimal()
		lo = decimal.Min(lo, p)
		hi = decimal.Max(hi, p)
	}
	return models.NewMoney(hi.Sub(lo))
}
