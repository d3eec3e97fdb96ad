package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/user-backoffice/internal/auth"
	"github.com/frahmantamala/user-backoffice/internal/resetweb"
	"github.com/frahmantamala/user-backoffice/internal/transport/middleware"
	"github.com/frahmantamala/user-backoffice/internal/transport/swagger"
	"github.com/frahmantamala/user-backoffice/internal/users"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, userHandler *users.Handler, resetHandler *resetweb.Handler, actorMiddleware *auth.Middleware, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Self-service reset form, rendered HTML, no actor required
	if resetHandler != nil {
		router.Get("/reset-password", resetHandler.ShowResetForm)
		router.Post("/reset-password", resetHandler.HandleReset)
	}

	// Mount the administrative API under /api/v1
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if userHandler != nil {
			r.Group(func(ar chi.Router) {
				if actorMiddleware != nil {
					ar.Use(actorMiddleware.WithActor)
				}

				ar.Route("/users", func(ur chi.Router) {
					ur.Get("/", userHandler.ListUsers)
					ur.Post("/", userHandler.CreateUser)
					ur.Put("/{id}", userHandler.UpdateUser)
					ur.Delete("/{id}", userHandler.DeleteUser)
					ur.Post("/{id}/reset-password", userHandler.SendResetPassword)
				})
			})
		}
	})
}
