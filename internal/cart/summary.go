package cart

import (
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
	"github.com/shopspring/decimal"
)

// The helpers below work on a snapshot from Store.Lines so that every
// figure shown for one screen comes from the same cart state.

// Filter returns the lines passing filter, order preserved
func Filter(lines []models.CartLine, filter models.Category) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Category.Matches(filter) {
			out = append(out, l)
		}
	}
	return out
}

// Count sums quantities of the lines passing filter
func Count(lines []models.CartLine, filter models.Category) int {
	count := 0
	for _, l := range lines {
		if l.Category.Matches(filter) {
			count += l.Quantity
		}
	}
	return count
}

// Subtotal sums price × quantity of the lines passing filter, unrounded
func Subtotal(lines []models.CartLine, filter models.Category) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Category.Matches(filter) {
			total = total.Add(l.LineTotal())
		}
	}
	return total
}

// Average is Subtotal divided by Count, zero when nothing passes filter
func Average(lines []models.CartLine, filter models.Category) decimal.Decimal {
	count := Count(lines, filter)
	if count == 0 {
		return decimal.Zero
	}
	return Subtotal(lines, filter).Div(decimal.NewFromInt(int64(count)))
}
