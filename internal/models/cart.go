package models

import "github.com/shopspring/decimal"

// CartLine is one entry in the cart: a copy of a menu item plus a quantity
type CartLine struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       Money    `json:"price"`
	Quantity    int      `json:"quantity"`
	Category    Category `json:"category"`
	Description string   `json:"desc,omitempty"`
}

// LineTotal is price × quantity, unrounded
func (l CartLine) LineTotal() decimal.Decimal {
	if l.Quantity <= 0 {
		return decimal.Zero
	}
	return l.Price.Decimal().Mul(decimal.NewFromInt(int64(l.Quantity)))
}
