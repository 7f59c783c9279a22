// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity entity. The PasswordHash field holds the salted
// one-way hash of the user's credential; it must never appear in any outward
// representation, so delivery layers map User to dedicated response types.
type User struct {
	ID           uuid.UUID // The unique identifier for the user.
	Name         string    // The user's display name.
	Email        string    // The user's login email, unique across all users.
	PasswordHash string    // Salted bcrypt hash of the credential.
	Address      *string   // Optional postal address.
	Role         Role      // The user's role: user, owner or admin.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the system administrator role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
