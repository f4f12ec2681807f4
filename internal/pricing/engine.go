// Package pricing computes cart totals. Every function is pure: it reads a
// snapshot of cart lines and never mutates it. Amounts are accumulated
// unrounded and only rounded to cents in Quote.
package pricing

import (
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RateSource resolves a promo code to a percentage
type RateSource interface {
	Rate(code string) int
}

// Engine prices carts with a fixed promo table and tax rate
type Engine struct {
	promos  RateSource
	taxRate decimal.Decimal
}

// NewEngine creates a pricing engine. taxRate is a fraction, e.g. 0.15.
// A nil promo source disables discounts.
func NewEngine(promos RateSource, taxRate decimal.Decimal) *Engine {
	if taxRate.IsNegative() {
		taxRate = decimal.Zero
	}
	return &Engine{
		promos:  promos,
		taxRate: taxRate,
	}
}

// TaxRate returns the configured tax fraction
func (e *Engine) TaxRate() decimal.Decimal {
	return e.taxRate
}

// Subtotal is the sum of price × quantity over all lines
func Subtotal(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// DiscountRate returns the percentage for promoCode, 0 for unknown codes
func (e *Engine) DiscountRate(promoCode string) int {
	if e.promos == nil || promoCode == "" {
		return 0
	}
	return e.promos.Rate(promoCode)
}

// Discount is subtotal × rate / 100
func (e *Engine) Discount(lines []models.CartLine, promoCode string) decimal.Decimal {
	return discount(Subtotal(lines), e.DiscountRate(promoCode))
}

// Tax is applied to the discounted amount
func (e *Engine) Tax(lines []models.CartLine, promoCode string) decimal.Decimal {
	subtotal := Subtotal(lines)
	return subtotal.Sub(discount(subtotal, e.DiscountRate(promoCode))).Mul(e.taxRate)
}

// Total is subtotal − discount + tax
func (e *Engine) Total(lines []models.CartLine, promoCode string) decimal.Decimal {
	subtotal := Subtotal(lines)
	taxable := subtotal.Sub(discount(subtotal, e.DiscountRate(promoCode)))
	return taxable.Add(taxable.Mul(e.taxRate))
}

// Quote computes every figure once and rounds them for presentation
func (e *Engine) Quote(lines []models.CartLine, promoCode string) models.Totals {
	rate := e.DiscountRate(promoCode)
	subtotal := Subtotal(lines)
	disc := discount(subtotal, rate)
	taxable := subtotal.Sub(disc)
	tax := taxable.Mul(e.taxRate)

	count := 0
	for _, l := range lines {
		if l.Quantity > 0 {
			count += l.Quantity
		}
	}

	return models.Totals{
		ItemCount:    count,
		Subtotal:     models.NewMoney(subtotal).Round2(),
		DiscountRate: rate,
		Discount:     models.NewMoney(disc).Round2(),
		Tax:          models.NewMoney(tax).Round2(),
		Total:        models.NewMoney(taxable.Add(tax)).Round2(),
	}
}

func discount(subtotal decimal.Decimal, rate int) decimal.Decimal {
	if rate <= 0 {
		return decimal.Zero
	}
	return subtotal.Mul(decimal.NewFromInt(int64(rate))).Div(hundred)
}
