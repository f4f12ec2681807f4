package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
)

// CheckoutHandler handles order placement
type CheckoutHandler struct {
	flow *checkout.Flow
	log  *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(flow *checkout.Flow, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		flow: flow,
		log:  log,
	}
}

// CheckoutRequest is the delivery form plus an optional promo code
type CheckoutRequest struct {
	models.Customer
	PromoCode string `json:"promoCode"`
}

// PlaceOrder handles POST /api/checkout
// - 201: order confirmed
// - 400: invalid body or a form field failed validation
// - 409: the cart is empty
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log.Warn("failed to decode checkout request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.flow.Submit(r.Context(), req.Customer, req.PromoCode)
	if err != nil {
		var vErr *checkout.ValidationError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			WriteError(w, http.StatusConflict, "Your cart is empty", h.log)
		case errors.As(err, &vErr):
			h.log.Info("checkout rejected", "field", vErr.Field)
			WriteFieldError(w, http.StatusBadRequest, vErr.Field, vErr.Message, h.log)
		default:
			h.log.Error("failed to place order", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, order, h.log)
}

// GetState handles GET /api/checkout
func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"state": string(h.flow.State())}, h.log)
}
