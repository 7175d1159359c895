package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sevacare/backend/app"
	"github.com/sevacare/backend/handlers"
	"github.com/sevacare/backend/services/authz"
	"github.com/sevacare/backend/utils"
)

// NewRouter builds the HTTP router. Every request passes the stages in
// order: rate limiting, then authentication, then authorization, then
// validation inside the handler.
func NewRouter(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	cfg := deps.Config
	r.Use(deps.RateLimitMiddleware.Limit("global", cfg.RateLimit.MaxRequests, cfg.RateLimit.Window))

	r.Get("/health", handlers.HealthCheckHandler(deps))
	r.Get("/ready", handlers.ReadinessCheckHandler(deps))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints get a much tighter window than the
			// global limit.
			r.Use(deps.RateLimitMiddleware.Limit("login", cfg.RateLimit.LoginMaxRequests, cfg.RateLimit.LoginWindow))
			r.Post("/login", handlers.LoginHandler(deps))
			r.Post("/refresh", handlers.RefreshHandler(deps))
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)

			r.Get("/me", handlers.CurrentIdentityHandler(deps))

			r.Route("/patients", func(r chi.Router) {
				r.Post("/profile", handlers.CreatePatientProfileHandler(deps))
				r.With(deps.AuthMiddleware.RequirePermission(authz.PermViewPatients)).
					Get("/", handlers.ListPatientsHandler(deps))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireRole(authz.RoleAdmin, authz.RoleSuperAdmin))
				r.Use(deps.AuthMiddleware.RequireActiveAdmin)

				r.With(deps.AuthMiddleware.RequirePermission(authz.PermViewReports)).
					Get("/reports", handlers.AdminReportsHandler(deps))
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		utils.WriteError(w, req, http.StatusNotFound, "not_found", "Resource not found", nil)
	})

	return r
}
