package router

import (
	"net/http"

	"parrot-ordering/internal/handler"
	"parrot-ordering/internal/middleware"
	"parrot-ordering/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	dishHandler *handler.DishHandler,
	offerHandler *handler.OfferHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	apiKey string,
	allowedOrigins []string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware in order: RequestID -> Recovery -> Logging -> CORS
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-API-Key", middleware.HeaderActorID, middleware.HeaderActorRole},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(apiKey, logger))
		r.Use(middleware.Identity(logger))

		// Any authenticated actor may browse the catalogue and today's offers
		r.Get("/dishes", dishHandler.List)
		r.Get("/dishes/{dishID}", dishHandler.GetByID)
		r.Get("/offers/today", offerHandler.Today)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))
			r.Post("/dishes", dishHandler.Create)
			r.Put("/dishes/{dishID}", dishHandler.Update)
			r.Delete("/dishes/{dishID}", dishHandler.Delete)
			r.Delete("/offers/{offerID}", offerHandler.Withdraw)
		})

		r.Route("/cook", func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleCook))
			r.Put("/menu", offerHandler.PublishMenu)
			r.Get("/menu", offerHandler.CookMenu)
			r.Get("/order-items", offerHandler.CookOrderItems)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleCustomer))
			r.Get("/cart", cartHandler.View)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Patch("/cart/items/{lineID}", cartHandler.UpdateItem)
			r.Delete("/cart/items/{lineID}", cartHandler.RemoveItem)
			r.Post("/orders", orderHandler.Submit)
			r.Get("/orders", orderHandler.List)
			r.Get("/orders/{orderID}", orderHandler.GetByID)
		})
	})

	return r
}
