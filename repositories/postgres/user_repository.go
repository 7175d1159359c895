package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sevacare/backend/models"
	"github.com/sevacare/backend/repositories"
	"github.com/sevacare/backend/services"
	"go.uber.org/zap"
)

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// FindUserByEmail retrieves a user by email
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrNotFound.WithMessage("user not found")
		}
		r.logger.Error("user lookup failed", zap.String("email", email), zap.Error(err))
		return nil, services.WrapStorage("failed to query user record", err)
	}

	return user, nil
}
