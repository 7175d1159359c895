package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure into one stable category. Every error that
// reaches the HTTP translator is reduced to exactly one Kind.
type Kind string

const (
	KindValidation         Kind = "validation_failed"
	KindAuthRequired       Kind = "authentication_required"
	KindTokenInvalid       Kind = "token_invalid"
	KindTokenExpired       Kind = "token_expired"
	KindPermissionDenied   Kind = "permission_denied"
	KindAccountDeactivated Kind = "account_deactivated"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindRateLimited        Kind = "rate_limit_exceeded"
	KindStorage            Kind = "storage_failure"
	KindUnknown            Kind = "unknown"
)

// HTTPStatus returns the wire status for a kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthRequired, KindTokenInvalid, KindTokenExpired:
		return http.StatusUnauthorized
	case KindPermissionDenied, KindAccountDeactivated:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// DomainError is a structured failure value: a stable kind, a client-safe
// message, the wrapped cause, and optional client-safe details. Constructed
// once at the failure site and never mutated while propagating.
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is: two domain errors match when their kinds match.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithDetail returns a copy carrying an extra client-safe detail. The
// receiver is left untouched so sentinel errors stay immutable.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{
		Kind:    e.Kind,
		Message: e.Message,
		Err:     e.Err,
		Details: details,
	}
}

// WithMessage returns a copy with a different client-safe message.
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{
		Kind:    e.Kind,
		Message: message,
		Err:     e.Err,
		Details: e.Details,
	}
}

// NewDomainError creates a new domain error
func NewDomainError(kind Kind, message string, err error) *DomainError {
	return &DomainError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Domain error variables

var (
	// Validation
	ErrValidationFailed = NewDomainError(KindValidation, "validation failed", nil)
	ErrMalformedBody    = NewDomainError(KindValidation, "request body is not valid JSON", nil)

	// Authentication
	ErrAuthenticationRequired = NewDomainError(KindAuthRequired, "authentication required", nil)
	ErrInvalidCredentials     = NewDomainError(KindAuthRequired, "invalid email or password", nil)
	ErrTokenInvalid           = NewDomainError(KindTokenInvalid, "invalid authentication token", nil)
	ErrTokenExpired           = NewDomainError(KindTokenExpired, "authentication token expired", nil)

	// Authorization
	ErrPermissionDenied   = NewDomainError(KindPermissionDenied, "permission denied", nil)
	ErrRoleNotAllowed     = NewDomainError(KindPermissionDenied, "role not allowed for this resource", nil)
	ErrAccountDeactivated = NewDomainError(KindAccountDeactivated, "account is deactivated", nil)

	// Resource
	ErrNotFound = NewDomainError(KindNotFound, "resource not found", nil)
	ErrConflict = NewDomainError(KindConflict, "resource already exists", nil)

	// Rate limiting
	ErrRateLimitExceeded = NewDomainError(KindRateLimited, "too many requests, please try again later", nil)

	// Infrastructure
	ErrStorageFailure = NewDomainError(KindStorage, "storage operation failed", nil)
	ErrUnknown        = NewDomainError(KindUnknown, "an unexpected error occurred", nil)
)

// Classify reduces any error to a DomainError. Known structured kinds pass
// through untouched; everything else becomes KindUnknown with the original
// error preserved as the cause for server-side logging.
func Classify(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewDomainError(KindUnknown, "an unexpected error occurred", err)
}

// KindOf returns the Kind of an error, or KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindUnknown
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return KindOf(err) == KindValidation
}

// IsAuthenticationError checks if an error requires (re-)authentication:
// missing credential, invalid token, or expired token.
func IsAuthenticationError(err error) bool {
	switch KindOf(err) {
	case KindAuthRequired, KindTokenInvalid, KindTokenExpired:
		return true
	}
	return false
}

// IsPermissionError checks if an error is a permission or account-state denial
func IsPermissionError(err error) bool {
	k := KindOf(err)
	return k == KindPermissionDenied || k == KindAccountDeactivated
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return KindOf(err) == KindConflict
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	return KindOf(err) == KindRateLimited
}

// IsStorageError checks if an error is a storage failure
func IsStorageError(err error) bool {
	return KindOf(err) == KindStorage
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with a kind and message
func WrapError(kind Kind, message string, err error) error {
	return NewDomainError(kind, message, err)
}

// WrapStorage wraps an error as a storage failure
func WrapStorage(message string, err error) error {
	return NewDomainError(KindStorage, message, err)
}
