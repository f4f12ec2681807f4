package models

import "time"

// Customer holds the contact and delivery fields collected at checkout
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order is written once when checkout is confirmed
type Order struct {
	ID        string     `json:"id"`
	Lines     []CartLine `json:"cartItems"`
	Customer
	PromoCode string    `json:"promoCode"`
	Subtotal  Money     `json:"subtotal"`
	Discount  Money     `json:"discount"`
	Tax       Money     `json:"tax"`
	Total     Money     `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// Totals is the priced summary of a cart, rounded to cents
type Totals struct {
	ItemCount    int   `json:"itemCount"`
	Subtotal     Money `json:"subtotal"`
	DiscountRate int   `json:"discountRate"`
	Discount     Money `json:"discount"`
	Tax          Money `json:"tax"`
	Total        Money `json:"total"`
}
