package utils

import (
	"encoding/json"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Meta carries the response timestamp and the request correlation id so
// client reports can be joined with server logs.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorBody is the client-facing error payload: a stable code plus optional
// client-safe details.
type ErrorBody struct {
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// Response is the single wire envelope for every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a success envelope with optional data.
func WriteSuccess(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) error {
	return WriteJSON(w, status, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    metaFor(r),
	})
}

// WriteError writes an error envelope. code is the stable error kind string;
// details must already be client-safe.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) error {
	return WriteJSON(w, status, Response{
		Success: false,
		Message: message,
		Error: &ErrorBody{
			Code:    code,
			Details: details,
		},
		Meta: metaFor(r),
	})
}

// WriteUnauthorized writes a 401 response
func WriteUnauthorized(w http.ResponseWriter, r *http.Request, message string) error {
	if message == "" {
		message = "Authentication required"
	}
	return WriteError(w, r, http.StatusUnauthorized, "authentication_required", message, nil)
}

// WriteForbidden writes a 403 response
func WriteForbidden(w http.ResponseWriter, r *http.Request, message string) error {
	if message == "" {
		message = "Access forbidden"
	}
	return WriteError(w, r, http.StatusForbidden, "permission_denied", message, nil)
}

// WriteInternalServerError writes a 500 response
func WriteInternalServerError(w http.ResponseWriter, r *http.Request, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteError(w, r, http.StatusInternalServerError, "unknown", message, nil)
}

func metaFor(r *http.Request) Meta {
	meta := Meta{Timestamp: time.Now().UTC()}
	if r != nil {
		meta.RequestID = chimiddleware.GetReqID(r.Context())
	}
	return meta
}
