package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sevacare/backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeAndDecode(t *testing.T, err error, hardened bool) (int, Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	WriteDomainError(rec, req, err, zap.NewNop(), hardened)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestWriteDomainError_KindMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", services.ErrValidationFailed, http.StatusBadRequest, "validation_failed"},
		{"authentication", services.ErrAuthenticationRequired, http.StatusUnauthorized, "authentication_required"},
		{"expired token", services.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
		{"permission", services.ErrPermissionDenied, http.StatusForbidden, "permission_denied"},
		{"deactivated", services.ErrAccountDeactivated, http.StatusForbidden, "account_deactivated"},
		{"not found", services.ErrNotFound, http.StatusNotFound, "not_found"},
		{"rate limited", services.ErrRateLimitExceeded, http.StatusTooManyRequests, "rate_limit_exceeded"},
		{"storage", services.ErrStorageFailure, http.StatusInternalServerError, "storage_failure"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := writeAndDecode(t, tt.err, false)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.False(t, resp.Meta.Timestamp.IsZero())
		})
	}
}

func TestWriteDomainError_DetailsPassThrough(t *testing.T) {
	err := services.ErrRateLimitExceeded.WithDetail("retry_after_seconds", 42)
	_, resp := writeAndDecode(t, err, false)

	details, ok := resp.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), details["retry_after_seconds"])
}

func TestWriteDomainError_HardenedHidesInternals(t *testing.T) {
	cause := errors.New("pq: connection refused on 10.0.3.7")
	err := services.WrapStorage("failed to query admin record", cause)

	t.Run("development keeps the cause visible", func(t *testing.T) {
		_, resp := writeAndDecode(t, err, false)
		details := resp.Error.Details.(map[string]interface{})
		assert.Contains(t, details["internal"], "connection refused")
	})

	t.Run("hardened mode replaces message and drops details", func(t *testing.T) {
		_, resp := writeAndDecode(t, err, true)
		assert.Equal(t, "An internal error occurred", resp.Message)
		assert.Nil(t, resp.Error.Details)
		assert.NotContains(t, resp.Message, "10.0.3.7")
	})

	t.Run("hardened mode leaves client errors intact", func(t *testing.T) {
		_, resp := writeAndDecode(t, services.ErrInvalidCredentials, true)
		assert.Equal(t, "invalid email or password", resp.Message)
	})
}

func TestWriteDomainError_NilIsNoop(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteDomainError(rec, req, nil, zap.NewNop(), false)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, http.StatusOK, rec.Code)
}
