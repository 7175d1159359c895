package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin is the administrative account record backing the active-admin gate.
// Active is flipped off instead of deleting the row when an admin is
// offboarded.
type Admin struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
