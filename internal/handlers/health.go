package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// HealthInfo describes the backends the server was started with
type HealthInfo struct {
	Storage string `json:"storage"`
	Archive string `json:"archive"`
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	info   HealthInfo
	promos promoTable
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(info HealthInfo, promos promoTable, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		info:   info,
		promos: promos,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string     `json:"status"`
	Timestamp  time.Time  `json:"timestamp"`
	Version    string     `json:"version"`
	Backends   HealthInfo `json:"backends"`
	PromoCodes int        `json:"promoCodes"`
}

// ServeHTTP handles GET /health
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Version:    "1.0.0",
		Backends:   h.info,
		PromoCodes: len(h.promos.Codes()),
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
