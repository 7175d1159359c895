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

// AdminRepository implements the repositories.AdminRepository interface
type AdminRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *DB, logger *zap.Logger) repositories.AdminRepository {
	return &AdminRepository{
		db:     db,
		logger: logger,
	}
}

// FindAdminByID retrieves an admin record by ID. Returns a not-found domain
// error when no record exists and a storage failure for driver errors,
// including context deadline expiry.
func (r *AdminRepository) FindAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	query := `
		SELECT id, email, name, active, created_at, updated_at
		FROM admins
		WHERE id = $1
	`

	admin := &models.Admin{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&admin.ID,
		&admin.Email,
		&admin.Name,
		&admin.Active,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrNotFound.WithMessage("admin record not found")
		}
		r.logger.Error("admin lookup failed", zap.String("id", id), zap.Error(err))
		return nil, services.WrapStorage("failed to query admin record", err)
	}

	return admin, nil
}
