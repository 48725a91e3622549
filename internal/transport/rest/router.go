package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/budget-approval/internal/auth"
	"github.com/frahmantamala/budget-approval/internal/budget"
	"github.com/frahmantamala/budget-approval/internal/transport/middleware"
	"github.com/frahmantamala/budget-approval/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, allowedOrigin string, authHandler *auth.Handler, roleAuth *auth.RoleAuthorization, budgetHandler *budget.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigin))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", authHandler.Register)
				sr.Post("/login", authHandler.Login)
			})
		}

		if authHandler != nil {
			// Protected routes that require a valid session
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				pr.Post("/auth/logout", authHandler.Logout)

				// Budget request routes
				if budgetHandler != nil {
					pr.Route("/budgets", func(br chi.Router) {
						// Any authenticated user
						br.Post("/", budgetHandler.SubmitRequest) // POST /budgets
						br.Get("/user", budgetHandler.ListOwnRequests)

						// Manager review routes
						br.Group(func(mr chi.Router) {
							mr.Use(roleAuth.RequireManager())
							mr.Get("/pending", budgetHandler.ListPending)
							mr.Put("/{id}/status", budgetHandler.UpdateStatus)
						})

						// Admin oversight routes
						br.Group(func(ar chi.Router) {
							ar.Use(roleAuth.RequireAdmin())
							ar.Get("/", budgetHandler.ListAll) // GET /budgets
							ar.Get("/summary", budgetHandler.GetSummary)
						})
					})
				}
			})
		}
	})
}
