package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/sevacare/backend/repositories"
	"github.com/sevacare/backend/services"
	"github.com/sevacare/backend/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenCodec is the credential issuing/verifying collaborator.
type TokenCodec interface {
	IssuePair(subjectID, role, sessionID string) (*token.Pair, error)
	VerifyRefresh(tokenString string) (*token.Claims, error)
}

// Service handles credential issuance: password login and refresh.
type Service struct {
	users  repositories.UserRepository
	codec  TokenCodec
	logger *zap.Logger
}

// NewService creates a new auth service
func NewService(users repositories.UserRepository, codec TokenCodec, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		codec:  codec,
		logger: logger,
	}
}

// Login verifies the password and issues a fresh token pair. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*token.Pair, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if services.IsNotFoundError(err) {
			return nil, services.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("failed login attempt", zap.String("email", email))
		return nil, services.ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	pair, err := s.codec.IssuePair(user.ID.String(), user.Role, sessionID)
	if err != nil {
		return nil, services.WrapError(services.KindUnknown, "failed to issue tokens", err)
	}

	s.logger.Info("login successful",
		zap.String("subject", user.ID.String()),
		zap.String("role", user.Role),
		zap.String("session_id", sessionID))
	return pair, nil
}

// Refresh verifies a refresh token and issues a new pair carrying the same
// subject, role and session. There is no revocation list: a refresh token
// stays valid until its expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*token.Pair, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	pair, err := s.codec.IssuePair(claims.SubjectID(), claims.Role, claims.SessionID)
	if err != nil {
		return nil, services.WrapError(services.KindUnknown, "failed to issue tokens", err)
	}
	return pair, nil
}
