package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/menu"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/pricing"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/service"
)

// CartHandler handles cart-related HTTP requests
type CartHandler struct {
	carts   *service.CartService
	pricing *pricing.Engine
	log     *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *service.CartService, engine *pricing.Engine, log *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		pricing: engine,
		log:     log,
	}
}

// AddLineRequest picks a dish from the menu by category and position
type AddLineRequest struct {
	Category string `json:"category"`
	Index    *int   `json:"index"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	filter, err := models.ParseFilter(r.URL.Query().Get("category"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid category", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, h.carts.Summary(filter), h.log)
}

// AddLine handles POST /api/cart/lines
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req AddLineRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log.Warn("failed to decode cart line request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if req.Index == nil {
		WriteError(w, http.StatusBadRequest, "Index is required", h.log)
		return
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid category", h.log)
		return
	}

	line, err := h.carts.AddFromMenu(r.Context(), category, *req.Index)
	if err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			WriteError(w, http.StatusNotFound, "Menu item not found", h.log)
			return
		}
		h.log.Error("failed to add cart line", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, line, h.log)
}

// IncrementLine handles POST /api/cart/lines/{lineId}/increment
func (h *CartHandler) IncrementLine(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, "increment", h.carts.Increment)
}

// DecrementLine handles POST /api/cart/lines/{lineId}/decrement
func (h *CartHandler) DecrementLine(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, "decrement", h.carts.Decrement)
}

// RemoveLine handles DELETE /api/cart/lines/{lineId}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, "remove", h.carts.Remove)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.carts.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// GetTotals handles GET /api/cart/totals
func (h *CartHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("promoCode")
	WriteJSON(w, http.StatusOK, h.pricing.Quote(h.carts.Lines(), code), h.log)
}

// mutateLine treats a missing line as a no-op: the screen may hold an id
// that was already removed.
func (h *CartHandler) mutateLine(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context, lineID string) error) {
	lineID := chi.URLParam(r, "lineId")

	if err := fn(r.Context(), lineID); err != nil {
		if !errors.Is(err, cart.ErrLineNotFound) {
			h.log.Error("cart line update failed", "op", op, "line_id", lineID, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
			return
		}
		h.log.Info("cart line not found, ignoring", "op", op, "line_id", lineID)
	}

	w.WriteHeader(http.StatusNoContent)
}
