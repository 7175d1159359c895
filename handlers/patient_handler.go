package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sevacare/backend/app"
	"github.com/sevacare/backend/middleware"
	"github.com/sevacare/backend/services"
	"github.com/sevacare/backend/utils"
)

// PatientProfileRequest is the patient profile submission payload. Phone
// numbers are accepted in any common Indian format and normalized to ten
// digits before validation.
type PatientProfileRequest struct {
	FullName         string `json:"full_name" validate:"required,min=2,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required,inphone"`
	DateOfBirth      string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	EmergencyContact string `json:"emergency_contact" validate:"omitempty,inphone"`
	Address          string `json:"address" validate:"omitempty,max=500"`
}

// PatientProfileResponse echoes the accepted profile back to the client.
type PatientProfileResponse struct {
	ID               string    `json:"id"`
	SubjectID        string    `json:"subject_id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	DateOfBirth      string    `json:"date_of_birth"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	Address          string    `json:"address,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreatePatientProfileHandler accepts a patient profile submission. The body
// is sanitized, phone numbers are normalized, and the result is validated
// before anything downstream sees it.
func CreatePatientProfileHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.GetIdentityFromContext(r.Context())
		if identity == nil {
			HandleServiceError(w, r, deps, services.ErrAuthenticationRequired)
			return
		}

		var req PatientProfileRequest
		if err := decodeSanitized(r, &req); err != nil {
			HandleServiceError(w, r, deps, err)
			return
		}

		req.Phone = utils.NormalizePhone(req.Phone)
		if req.EmergencyContact != "" {
			req.EmergencyContact = utils.NormalizePhone(req.EmergencyContact)
		}

		if err := utils.ValidateStruct(&req); err != nil {
			HandleServiceError(w, r, deps, err)
			return
		}

		profile := PatientProfileResponse{
			ID:               uuid.NewString(),
			SubjectID:        identity.SubjectID,
			FullName:         req.FullName,
			Email:            req.Email,
			Phone:            req.Phone,
			DateOfBirth:      req.DateOfBirth,
			EmergencyContact: req.EmergencyContact,
			Address:          req.Address,
			CreatedAt:        time.Now().UTC(),
		}

		utils.WriteSuccess(w, r, http.StatusCreated, "Profile created", profile)
	}
}

// ListPatientsHandler is reachable only through the view-patients permission
// gate; it reports the caller's resolved identity alongside the (empty)
// listing.
func ListPatientsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.GetIdentityFromContext(r.Context())
		if identity == nil {
			HandleServiceError(w, r, deps, services.ErrAuthenticationRequired)
			return
		}

		utils.WriteSuccess(w, r, http.StatusOK, "Patients retrieved", map[string]interface{}{
			"patients":     []interface{}{},
			"requested_by": identity.SubjectID,
			"role":         string(identity.Role),
		})
	}
}
