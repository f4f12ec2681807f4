package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/config"
)

// APIKeyAuth guards admin routes. The key is passed in the "api_key"
// header; a missing key is 401 and an unknown key 403.
func APIKeyAuth(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("api_key")

			if apiKey == "" {
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized: API key required")
				return
			}

			if !slices.Contains(cfg.APIKeys, apiKey) {
				slog.WarnContext(r.Context(), "rejected admin request", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				writeAuthError(w, http.StatusForbidden, "Forbidden: Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
