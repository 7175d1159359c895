package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sevacare/backend/middleware"
	"github.com/sevacare/backend/services/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postAsIdentity(handler http.HandlerFunc, identity *authz.Identity, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreatePatientProfileHandler(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := CreatePatientProfileHandler(deps)
	identity := &authz.Identity{SubjectID: "user-1", Role: authz.RolePatient}

	t.Run("valid profile is accepted with normalized phone", func(t *testing.T) {
		rec := postAsIdentity(handler, identity, `{
			"full_name": "Ravi Kumar",
			"email": "ravi@example.com",
			"phone": "+91 98765 43210",
			"date_of_birth": "1990-04-21"
		}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		assert.Equal(t, "9876543210", env.Data["phone"])
		assert.Equal(t, "user-1", env.Data["subject_id"])
		assert.NotEmpty(t, env.Data["id"])
	})

	t.Run("markup is stripped from text fields", func(t *testing.T) {
		rec := postAsIdentity(handler, identity, `{
			"full_name": "<script>Ravi</script>",
			"email": "ravi@example.com",
			"phone": "9876543210",
			"date_of_birth": "1990-04-21",
			"address": "12 MG Road javascript:alert(1)"
		}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.Equal(t, "scriptRavi/script", env.Data["full_name"])
		assert.Equal(t, "12 MG Road alert(1)", env.Data["address"])
	})

	t.Run("unnormalizable phone is a validation error", func(t *testing.T) {
		rec := postAsIdentity(handler, identity, `{
			"full_name": "Ravi Kumar",
			"email": "ravi@example.com",
			"phone": "12345",
			"date_of_birth": "1990-04-21"
		}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.Equal(t, "validation_failed", env.Error.Code)
		fields := env.Error.Details["fields"].([]interface{})
		field := fields[0].(map[string]interface{})
		assert.Equal(t, "phone", field["field"])
	})

	t.Run("malformed date is a validation error", func(t *testing.T) {
		rec := postAsIdentity(handler, identity, `{
			"full_name": "Ravi Kumar",
			"email": "ravi@example.com",
			"phone": "9876543210",
			"date_of_birth": "21-04-1990"
		}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		rec := postAsIdentity(handler, nil, `{}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "authentication_required", decodeEnvelope(t, rec).Error.Code)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		rec := postAsIdentity(handler, identity, `not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListPatientsHandler(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := ListPatientsHandler(deps)

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	identity := &authz.Identity{SubjectID: "doc-1", Role: authz.RoleDoctor}
	req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "doc-1", env.Data["requested_by"])
	assert.Equal(t, "doctor", env.Data["role"])
}
