package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sevacare/backend/config"
	"github.com/sevacare/backend/services"
)

// Token use markers embedded in the claims so an access token can never be
// replayed as a refresh token and vice versa.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Claims is the decoded payload of a verified credential. Immutable once
// issued; downstream stages read it but never mutate it.
type Claims struct {
	Role      string `json:"role"`
	SessionID string `json:"sid,omitempty"`
	TokenUse  string `json:"token_use"`
	jwt.RegisteredClaims
}

// SubjectID returns the subject identity the token was issued for.
func (c *Claims) SubjectID() string {
	return c.Subject
}

// Pair is an access/refresh token pair. The two tokens are independently
// signed and independently expiring.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime in seconds
}

// Codec issues and verifies signed, expiring credentials. Stateless per
// call: the signing secrets are process-wide config loaded once, and no
// external lookup is needed to verify.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewCodec creates a Codec from validated auth configuration.
func NewCodec(cfg config.AuthConfig) (*Codec, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("token codec requires access and refresh secrets")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token codec requires positive TTLs")
	}
	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
	}, nil
}

// IssuePair signs a new access/refresh pair for the given subject.
// sessionID may be empty for flows that do not track a server session.
func (c *Codec) IssuePair(subjectID, role, sessionID string) (*Pair, error) {
	access, err := c.sign(subjectID, role, sessionID, UseAccess, c.accessTTL, c.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := c.sign(subjectID, role, sessionID, UseRefresh, c.refreshTTL, c.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(c.accessTTL.Seconds()),
	}, nil
}

// VerifyAccess verifies an access token and returns its claims.
// Returns a TokenExpired domain error when the token is past its expiry and
// a TokenInvalid one for every other verification failure, so callers can
// prompt re-authentication for the former and reject outright the latter.
func (c *Codec) VerifyAccess(tokenString string) (*Claims, error) {
	return c.verify(tokenString, UseAccess, c.accessSecret)
}

// VerifyRefresh verifies a refresh token and returns its claims.
func (c *Codec) VerifyRefresh(tokenString string) (*Claims, error) {
	return c.verify(tokenString, UseRefresh, c.refreshSecret)
}

func (c *Codec) sign(subjectID, role, sessionID, use string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      role,
		SessionID: sessionID,
		TokenUse:  use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (c *Codec) verify(tokenString, use string, secret []byte) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		options = append(options, jwt.WithIssuer(c.issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, services.ErrTokenExpired
		}
		return nil, services.WrapError(services.KindTokenInvalid, "invalid authentication token", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, services.ErrTokenInvalid
	}
	if claims.TokenUse != use {
		return nil, services.WrapError(services.KindTokenInvalid, "invalid authentication token",
			fmt.Errorf("unexpected token_use %q", claims.TokenUse))
	}
	if claims.Subject == "" {
		return nil, services.WrapError(services.KindTokenInvalid, "invalid authentication token",
			errors.New("missing subject"))
	}
	return claims, nil
}
