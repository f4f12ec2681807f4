package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// promoTable is the read side of promo.Table
type promoTable interface {
	Lookup(code string) (int, bool)
	Codes() []string
	Stats() map[string]interface{}
}

// PromoHandler handles HTTP requests for promo code checks
type PromoHandler struct {
	promos promoTable
	logger *slog.Logger
}

// NewPromoHandler creates a new promo handler
func NewPromoHandler(promos promoTable, logger *slog.Logger) *PromoHandler {
	return &PromoHandler{
		promos: promos,
		logger: logger,
	}
}

// ValidatePromo handles GET /api/promo/{code}
func (h *PromoHandler) ValidatePromo(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	percent, ok := h.promos.Lookup(code)
	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]interface{}{
			"valid":   false,
			"code":    code,
			"message": "The promo code you entered is not valid.",
		}, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":   true,
		"code":    code,
		"percent": percent,
	}, h.logger)
}

// GetStats handles GET /api/promo/stats (for debugging/monitoring)
func (h *PromoHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.promos.Stats(), h.logger)
}
