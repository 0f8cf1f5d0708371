/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/decrees/*      Decree book and submission
  /api/balances/*     Balance resolution
  /api/alerts/*       Low-balance alerting
  /api/employees/*    Roster management
  /api/requests/*     Leave request workflow

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Decree routes
		r.Route("/decrees", func(r chi.Router) {
			r.Get("/", h.ListDecrees)
			r.Post("/", h.CreateDecree)
			r.Post("/undo", h.UndoDecree)
			r.Get("/{id}", h.GetDecree)
			r.Put("/{id}", h.UpdateDecree)
			r.Delete("/{id}", h.DeleteDecree)
		})

		// Balance routes
		r.Get("/balances/{rut}", h.GetBalances)
		r.Get("/alerts/low-balance", h.GetLowBalances)
		r.Get("/correlatives", h.GetCorrelatives)

		// Reporting routes
		r.Get("/usage", h.GetUsage)
		r.Get("/stats", h.GetStats)
		r.Get("/on-leave", h.GetOnLeave)

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.SaveEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
		})

		// Leave request routes
		r.Route("/requests", func(r chi.Router) {
			r.Get("/", h.ListRequests)
			r.Post("/", h.CreateRequest)
			r.Post("/{id}/approve", h.ApproveRequest)
			r.Post("/{id}/reject", h.RejectRequest)
			r.Delete("/{id}", h.DeleteRequest)
		})
	})

	return r
}
