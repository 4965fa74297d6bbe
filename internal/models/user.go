package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the narrow sum of roles the identity provider can assign. Claims
// are resolved to a Role once at the auth boundary; the engine only ever
// sees a pre-validated Actor.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleSalesman     Role = "SALESMAN"
	RoleStockManager Role = "STOCK_MANAGER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSalesman, RoleStockManager:
		return true
	}
	return false
}

// User mirrors an identity-provider account into the local database. The
// local row is authoritative for the role.
type User struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ExternalID string    `json:"external_id" db:"external_id"`
	Email      string    `json:"email" db:"email"`
	Name       *string   `json:"name" db:"name"`
	Role       Role      `json:"role" db:"role"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Actor is the authenticated caller as seen by services and handlers.
type Actor struct {
	UserID     uuid.UUID
	ExternalID string
	Role       Role
}
