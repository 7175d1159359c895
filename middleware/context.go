package middleware

import (
	"context"

	"github.com/sevacare/backend/services/authz"
	"github.com/sevacare/backend/token"
)

// Context key type to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for verified token claims
	ClaimsKey contextKey = "claims"

	// IdentityKey is the context key for the resolved identity
	IdentityKey contextKey = "identity"
)

// WithClaims adds verified token claims to the context
func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaimsFromContext retrieves verified token claims from context
func GetClaimsFromContext(ctx context.Context) *token.Claims {
	if val := ctx.Value(ClaimsKey); val != nil {
		if claims, ok := val.(*token.Claims); ok {
			return claims
		}
	}
	return nil
}

// WithIdentity adds the resolved identity to the context
func WithIdentity(ctx context.Context, identity *authz.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentityFromContext retrieves the resolved identity from context.
// Returns nil for unauthenticated requests.
func GetIdentityFromContext(ctx context.Context) *authz.Identity {
	if val := ctx.Value(IdentityKey); val != nil {
		if identity, ok := val.(*authz.Identity); ok {
			return identity
		}
	}
	return nil
}
