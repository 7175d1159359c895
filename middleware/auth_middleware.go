package middleware

import (
	"context"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sevacare/backend/services"
	"github.com/sevacare/backend/services/authz"
	"github.com/sevacare/backend/token"
	"github.com/sevacare/backend/utils"
	"go.uber.org/zap"
)

// TokenVerifier verifies an access token and returns its claims.
type TokenVerifier interface {
	VerifyAccess(tokenString string) (*token.Claims, error)
}

// Authorizer resolves identities and decides role/permission questions.
type Authorizer interface {
	IdentityFor(subjectID string, role authz.Role, sessionID string) *authz.Identity
	Authorize(identity *authz.Identity, required authz.Permission) error
	RequireRole(identity *authz.Identity, allowed ...authz.Role) error
	CheckAdminActive(ctx context.Context, identity *authz.Identity) error
}

// AuthMiddleware is the authentication and authorization stage of the
// request pipeline.
type AuthMiddleware struct {
	verifier   TokenVerifier
	authorizer Authorizer
	logger     *zap.Logger
	hardened   bool
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, authorizer Authorizer, logger *zap.Logger, hardened bool) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:   verifier,
		authorizer: authorizer,
		logger:     logger,
		hardened:   hardened,
	}
}

// accessTokenCookieName is the cookie fallback; the Authorization header
// takes precedence when both are present.
const accessTokenCookieName = "access_token"

// RequireAuth authenticates the request and attaches the resolved identity
// to the context. Failures short-circuit with the matching 401 kind.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, claims, err := m.authenticate(r)
		if err != nil {
			utils.WriteDomainError(w, r, err, m.logger, m.hardened)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.String("subject", identity.SubjectID),
			zap.String("role", string(identity.Role)))

		ctx := WithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
	})
}

// OptionalAuth attaches an identity when a valid credential is presented
// and deliberately proceeds unauthenticated on any authentication failure.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, claims, err := m.authenticate(r)
		if err != nil {
			m.logger.Debug("optional authentication skipped",
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.String("reason", err.Error()))
			next.ServeHTTP(w, r)
			return
		}
		ctx := WithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
	})
}

// RequirePermission gates the endpoint on a fine-grained permission.
// Must run after RequireAuth.
func (m *AuthMiddleware) RequirePermission(required authz.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentityFromContext(r.Context())
			if err := m.authorizer.Authorize(identity, required); err != nil {
				utils.WriteDomainError(w, r, err, m.logger, m.hardened)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates the endpoint on a coarse role set. Must run after
// RequireAuth.
func (m *AuthMiddleware) RequireRole(allowed ...authz.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentityFromContext(r.Context())
			if err := m.authorizer.RequireRole(identity, allowed...); err != nil {
				utils.WriteDomainError(w, r, err, m.logger, m.hardened)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireActiveAdmin resolves the admin record behind the identity and
// denies deactivated accounts. Must run after RequireAuth.
func (m *AuthMiddleware) RequireActiveAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentityFromContext(r.Context())
		if err := m.authorizer.CheckAdminActive(r.Context(), identity); err != nil {
			utils.WriteDomainError(w, r, err, m.logger, m.hardened)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate extracts and verifies the credential, then resolves the
// identity with its role's permission set.
func (m *AuthMiddleware) authenticate(r *http.Request) (*authz.Identity, *token.Claims, error) {
	raw := extractToken(r)
	if raw == "" {
		return nil, nil, services.ErrAuthenticationRequired
	}

	claims, err := m.verifier.VerifyAccess(raw)
	if err != nil {
		return nil, nil, err
	}

	role, ok := authz.ParseRole(claims.Role)
	if !ok {
		return nil, nil, services.WrapError(services.KindTokenInvalid,
			"invalid authentication token", nil)
	}

	identity := m.authorizer.IdentityFor(claims.SubjectID(), role, claims.SessionID)
	return identity, claims, nil
}

// extractToken extracts the credential from the Authorization header
// ("Bearer TOKEN") or the access_token cookie. Header wins.
func extractToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	if cookie, err := r.Cookie(accessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
