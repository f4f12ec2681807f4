package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/middleware"
)

// Router groups the handlers served by the API
type Router struct {
	Health   *HealthHandler
	Menu     *MenuHandler
	Cart     *CartHandler
	Promo    *PromoHandler
	Checkout *CheckoutHandler
}

// NewRouter builds the chi router with the standard middleware stack.
// Menu writes require an api_key header.
func NewRouter(h Router, auth config.AuthConfig, timeout time.Duration, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", h.Menu.ListMenu)

			r.Group(func(r chi.Router) {
				r.Use(middleware.APIKeyAuth(auth))
				r.Post("/", h.Menu.AddMenuItem)
				r.Post("/reset", h.Menu.ResetMenu)
				r.Delete("/{category}/{index}", h.Menu.RemoveMenuItem)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Get("/totals", h.Cart.GetTotals)
			r.Post("/lines", h.Cart.AddLine)
			r.Post("/lines/{lineId}/increment", h.Cart.IncrementLine)
			r.Post("/lines/{lineId}/decrement", h.Cart.DecrementLine)
			r.Delete("/lines/{lineId}", h.Cart.RemoveLine)
		})

		r.Get("/promo/stats", h.Promo.GetStats)
		r.Get("/promo/{code}", h.Promo.ValidatePromo)

		r.Get("/checkout", h.Checkout.GetState)
		r.Post("/checkout", h.Checkout.PlaceOrder)
	})

	return r
}
