package handlers

import (
	"net/http"

	"github.com/sevacare/backend/app"
	"github.com/sevacare/backend/utils"
)

// HandleServiceError translates a service error into the standard response
// envelope. All handler error paths funnel through here so the mapping from
// error kind to HTTP status lives in exactly one place.
func HandleServiceError(w http.ResponseWriter, r *http.Request, deps *app.Dependencies, err error) {
	utils.WriteDomainError(w, r, err, deps.Logger, deps.Hardened())
}
