package handlers

import (
	"net/http"
	"time"

	"github.com/sevacare/backend/app"
	"github.com/sevacare/backend/middleware"
	"github.com/sevacare/backend/services"
	"github.com/sevacare/backend/utils"
)

// AdminReportsHandler sits behind the full admin gate chain: authentication,
// the admin role check, the active-admin record check, and the view-reports
// permission.
func AdminReportsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.GetIdentityFromContext(r.Context())
		if identity == nil {
			HandleServiceError(w, r, deps, services.ErrAuthenticationRequired)
			return
		}

		utils.WriteSuccess(w, r, http.StatusOK, "Reports retrieved", map[string]interface{}{
			"reports":      []interface{}{},
			"generated_at": time.Now().UTC(),
			"requested_by": identity.SubjectID,
		})
	}
}

// CurrentIdentityHandler returns the caller's resolved identity: subject,
// role, session and granted permissions.
func CurrentIdentityHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.GetIdentityFromContext(r.Context())
		if identity == nil {
			HandleServiceError(w, r, deps, services.ErrAuthenticationRequired)
			return
		}

		permissions := make([]string, 0, len(identity.Permissions))
		for perm, granted := range identity.Permissions {
			if granted {
				permissions = append(permissions, perm.String())
			}
		}

		utils.WriteSuccess(w, r, http.StatusOK, "Identity resolved", map[string]interface{}{
			"subject_id":  identity.SubjectID,
			"role":        string(identity.Role),
			"session_id":  identity.SessionID,
			"permissions": permissions,
		})
	}
}
