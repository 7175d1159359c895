package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/sevacare/backend/services/authz"
	"github.com/sevacare/backend/services/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRateLimitFixture() *RateLimitMiddleware {
	return NewRateLimitMiddleware(ratelimit.NewService(zap.NewNop()), zap.NewNop(), false)
}

func limitedRequest(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLimit_AdmitsUpToLimitThenRejects(t *testing.T) {
	m := newRateLimitFixture()
	handler := m.Limit("test", 5, time.Minute)(okHandler())

	for i := 1; i <= 5; i++ {
		rec := limitedRequest(handler, "10.0.0.1:52000")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(5-i), rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	}

	rec := limitedRequest(handler, "10.0.0.1:52000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "rate_limit_exceeded", env.Error.Code)

	retryAfter, ok := env.Error.Details["retry_after_seconds"].(float64)
	require.True(t, ok, "retry hint must be numeric")
	assert.GreaterOrEqual(t, retryAfter, float64(1))

	headerRetry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, headerRetry, 1)
}

func TestLimit_SeparateAddressesHaveSeparateBudgets(t *testing.T) {
	m := newRateLimitFixture()
	handler := m.Limit("test", 1, time.Minute)(okHandler())

	assert.Equal(t, http.StatusOK, limitedRequest(handler, "10.0.0.1:52000").Code)
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(handler, "10.0.0.1:52000").Code)

	// A different client port does not matter, a different host does.
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(handler, "10.0.0.1:9999").Code)
	assert.Equal(t, http.StatusOK, limitedRequest(handler, "10.0.0.2:52000").Code)
}

func TestLimit_ScopesAreIndependent(t *testing.T) {
	m := newRateLimitFixture()
	global := m.Limit("global", 1, time.Minute)(okHandler())
	login := m.Limit("login", 1, time.Minute)(okHandler())

	assert.Equal(t, http.StatusOK, limitedRequest(global, "10.0.0.1:52000").Code)
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(global, "10.0.0.1:52000").Code)

	// Saturating one scope leaves the other untouched.
	assert.Equal(t, http.StatusOK, limitedRequest(login, "10.0.0.1:52000").Code)
}

func TestLimit_AuthenticatedRequestsAreKeyedBySubject(t *testing.T) {
	m := newRateLimitFixture()
	handler := m.Limit("test", 1, time.Minute)(okHandler())

	identityRequest := func(subjectID, remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/resource", nil)
		req.RemoteAddr = remoteAddr
		identity := &authz.Identity{SubjectID: subjectID, Role: authz.RolePatient}
		req = req.WithContext(WithIdentity(req.Context(), identity))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	// Same subject across addresses shares one budget.
	assert.Equal(t, http.StatusOK, identityRequest("user-1", "10.0.0.1:52000").Code)
	assert.Equal(t, http.StatusTooManyRequests, identityRequest("user-1", "10.0.0.9:52000").Code)

	// Another subject on the same address has its own.
	assert.Equal(t, http.StatusOK, identityRequest("user-2", "10.0.0.1:52000").Code)
}
