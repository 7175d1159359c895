package utils

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sevacare/backend/services"
	"go.uber.org/zap"
)

// WriteDomainError is the single translation point from a failure value to
// the wire envelope. Unclassified errors become unknown/500. In hardened
// mode internal failures render only a generic message; the full cause is
// logged server-side either way, keyed by the request id.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger, hardened bool) {
	if err == nil {
		return
	}

	domainErr := services.Classify(err)
	status := domainErr.Kind.HTTPStatus()
	requestID := chimiddleware.GetReqID(r.Context())

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", requestID),
			zap.String("kind", string(domainErr.Kind)),
			zap.Error(domainErr))
	} else {
		logger.Warn("request rejected",
			zap.String("request_id", requestID),
			zap.String("kind", string(domainErr.Kind)),
			zap.String("message", domainErr.Message))
	}

	message := domainErr.Message
	var details interface{}
	if len(domainErr.Details) > 0 {
		details = domainErr.Details
	}

	internal := domainErr.Kind == services.KindStorage || domainErr.Kind == services.KindUnknown
	if internal {
		if hardened {
			message = "An internal error occurred"
			details = nil
		} else if domainErr.Err != nil {
			// Development mode keeps the cause visible in the response.
			details = map[string]interface{}{"internal": domainErr.Err.Error()}
		}
	}

	if writeErr := WriteError(w, r, status, string(domainErr.Kind), message, details); writeErr != nil {
		logger.Error("failed to write error response",
			zap.String("request_id", requestID),
			zap.Error(writeErr))
	}
}
