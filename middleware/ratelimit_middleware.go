package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sevacare/backend/services"
	"github.com/sevacare/backend/services/ratelimit"
	"github.com/sevacare/backend/utils"
	"go.uber.org/zap"
)

// Limiter is the rate limit decision point consumed by the middleware.
type Limiter interface {
	Check(key string, maxRequests int, window time.Duration) ratelimit.Result
}

// RateLimitMiddleware is the first stage of the request pipeline: it admits
// or rejects before any token work happens.
type RateLimitMiddleware struct {
	limiter  Limiter
	logger   *zap.Logger
	hardened bool
}

// NewRateLimitMiddleware creates a new RateLimitMiddleware
func NewRateLimitMiddleware(limiter Limiter, logger *zap.Logger, hardened bool) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter:  limiter,
		logger:   logger,
		hardened: hardened,
	}
}

// Limit enforces a fixed-window policy under the given scope. Keys are the
// authenticated subject when one is present, falling back to the client IP,
// so pre-auth endpoints are throttled per address.
func (m *RateLimitMiddleware) Limit(scope string, maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + clientKey(r)
			result := m.limiter.Check(key, maxRequests, window)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retryAfter := int(result.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				m.logger.Warn("rate limit exceeded",
					zap.String("request_id", chimiddleware.GetReqID(r.Context())),
					zap.String("scope", scope),
					zap.String("key", key))

				err := services.ErrRateLimitExceeded.
					WithDetail("retry_after_seconds", retryAfter)
				utils.WriteDomainError(w, r, err, m.logger, m.hardened)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller: resolved identity first, client address
// otherwise. Relies on chi's RealIP middleware having rewritten RemoteAddr.
func clientKey(r *http.Request) string {
	if identity := GetIdentityFromContext(r.Context()); identity != nil {
		return identity.SubjectID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
