package handlers

import (
	"net/http"

	"github.com/sevacare/backend/app"
	"github.com/sevacare/backend/utils"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest is the token refresh payload.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginHandler exchanges email/password for a token pair.
func LoginHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeSanitized(r, &req); err != nil {
			HandleServiceError(w, r, deps, err)
			return
		}
		if err := utils.ValidateStruct(&req); err != nil {
			HandleServiceError(w, r, deps, err)
			return
		}

		pair, err := deps.Auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			HandleServiceError(w, r, deps, err)
			return
		}

		utils.WriteSuccess(w, r, http.StatusOK, "Login successful", pair)
	}
}

// RefreshHandler exchanges a valid refresh token for a fresh pair.
func RefreshHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if err := decodeSanitized(r, &req); err != nil {
			HandleServiceError(w, r, deps, err)
			return
		}
		if err := utils.ValidateStruct(&req); err != nil {
			HandleServiceError(w, r, deps, err)
			return
		}

		pair, err := deps.Auth.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			HandleServiceError(w, r, deps, err)
			return
		}

		utils.WriteSuccess(w, r, http.StatusOK, "Token refreshed", pair)
	}
}
