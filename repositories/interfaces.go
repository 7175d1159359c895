package repositories

import (
	"context"

	"github.com/sevacare/backend/models"
)

// AdminRepository resolves admin account records for the active-admin gate.
type AdminRepository interface {
	// FindAdminByID returns the admin record for id, or a not-found domain
	// error when no record exists.
	FindAdminByID(ctx context.Context, id string) (*models.Admin, error)
}

// UserRepository resolves user accounts for the login flow.
type UserRepository interface {
	// FindUserByEmail returns the user with the given email, or a not-found
	// domain error when no record exists.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}
