package models

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a non-negative monetary amount.
// Negative or non-numeric inputs are coerced to zero instead of failing.
type Money struct {
	d decimal.Decimal
}

// NewMoney wraps d, clamping negatives to zero
func NewMoney(d decimal.Decimal) Money {
	if d.IsNegative() {
		return Money{}
	}
	return Money{d: d}
}

// MoneyFromFloat is mostly useful for seed data and tests
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// ParseMoney parses text such as "12.50"; anything unparsable is zero
func ParseMoney(s string) Money {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}
	}
	return NewMoney(d)
}

func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) IsZero() bool { return m.d.IsZero() }

// Round2 rounds half away from zero to cents
func (m Money) Round2() Money { return Money{d: m.d.Round(2)} }

// Float64 is for display only
func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

func (m Money) String() string { return m.d.StringFixed(2) }

// MarshalJSON writes a bare JSON number
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON accepts a number, a numeric string or null
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	*m = ParseMoney(strings.Trim(string(data), `"`))
	return nil
}
