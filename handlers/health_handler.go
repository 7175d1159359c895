package handlers

import (
	"net/http"

	"github.com/sevacare/backend/app"
	"github.com/sevacare/backend/utils"
	"go.uber.org/zap"
)

// HealthCheckHandler reports process liveness.
func HealthCheckHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.WriteSuccess(w, r, http.StatusOK, "OK", map[string]string{
			"status": "healthy",
		})
	}
}

// ReadinessCheckHandler reports whether the service can reach its
// dependencies.
func ReadinessCheckHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.DB.HealthCheck(r.Context()); err != nil {
			deps.Logger.Error("readiness check failed", zap.Error(err))
			utils.WriteError(w, r, http.StatusServiceUnavailable, "storage_failure", "Service not ready", nil)
			return
		}

		utils.WriteSuccess(w, r, http.StatusOK, "OK", map[string]string{
			"status": "ready",
		})
	}
}
