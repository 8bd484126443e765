package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the account role used by the access control layer.
type Role string

const (
	RoleTenant Role = "tenant"
	RoleAgent  Role = "agent"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Role             Role      `json:"role" db:"role"`
	Avatar           string    `json:"avatar" db:"avatar"`
	IsActive         bool      `json:"isActive" db:"is_active"`
	RefreshTokenHash *string   `json:"-" db:"refresh_token_hash"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

// Summary returns the public projection embedded in bookings and reviews.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

type UserSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email,omitempty"`
	Avatar string    `json:"avatar,omitempty"`
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *Role   `json:"role"`
	Avatar   *string `json:"avatar"`
	IsActive *bool   `json:"isActive"`
}
