package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/menu"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/service"
)

// MenuHandler handles menu-related HTTP requests
type MenuHandler struct {
	service *service.MenuService
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(service *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

// AddMenuItemRequest is the admin form. Price may be sent as text or as a
// number.
type AddMenuItemRequest struct {
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Desc     string          `json:"desc"`
	Price    json.RawMessage `json:"price"`
}

// ListMenu handles GET /api/menu
// The response carries the whole menu, the dishes passing the optional
// category filter, and a count and price range per column.
func (h *MenuHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	filter, err := models.ParseFilter(r.URL.Query().Get("category"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid category", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, h.service.Listing(filter), h.logger)
}

// AddMenuItem handles POST /api/menu
// - 201: item added
// - 400: invalid body, unknown category or missing fields
// - 409: category already holds the maximum number of dishes
func (h *MenuHandler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	var req AddMenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode menu item request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid category", h.logger)
		return
	}

	item, err := h.service.Add(r.Context(), category, req.Name, req.Desc, priceText(req.Price))
	if err != nil {
		switch {
		case errors.Is(err, menu.ErrMissingFields):
			WriteError(w, http.StatusBadRequest, "Please fill in all fields to add a meal.", h.logger)
		case errors.Is(err, menu.ErrCategoryFull):
			h.logger.Info("menu category full", "category", category)
			WriteError(w, http.StatusConflict, "Only 2 meals allowed in "+string(category)+". Remove one to add another.", h.logger)
		default:
			h.logger.Error("failed to add menu item", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, item, h.logger)
}

// RemoveMenuItem handles DELETE /api/menu/{category}/{index}
func (h *MenuHandler) RemoveMenuItem(w http.ResponseWriter, r *http.Request) {
	category, err := models.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid category", h.logger)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid index", h.logger)
		return
	}

	if err := h.service.Remove(r.Context(), category, index); err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			WriteError(w, http.StatusNotFound, "Menu item not found", h.logger)
			return
		}
		h.logger.Error("failed to remove menu item", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResetMenu handles POST /api/menu/reset
func (h *MenuHandler) ResetMenu(w http.ResponseWriter, r *http.Request) {
	h.service.Mount(r.Context())
	WriteJSON(w, http.StatusOK, h.service.List(), h.logger)
}

// priceText turns "12.50" or 12.5 into the text the catalog parses
func priceText(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return text
}
