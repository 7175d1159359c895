package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sevacare/backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserRepository_FindUserByEmail(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	t.Run("existing user is returned", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow(userID, "ravi@example.com", "$2a$10$hash", "patient", now, now)
		mock.ExpectQuery("FROM users").
			WithArgs("ravi@example.com").
			WillReturnRows(rows)

		user, err := repo.FindUserByEmail(ctx, "ravi@example.com")
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "patient", user.Role)
		assert.Equal(t, "$2a$10$hash", user.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user yields not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery("FROM users").
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}))

		_, err := repo.FindUserByEmail(ctx, "nobody@example.com")
		require.Error(t, err)
		assert.True(t, services.IsNotFoundError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error yields storage failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery("FROM users").
			WithArgs("ravi@example.com").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.FindUserByEmail(ctx, "ravi@example.com")
		require.Error(t, err)
		assert.True(t, services.IsStorageError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
