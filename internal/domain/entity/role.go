package entity

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleUser indicates a regular user who can browse stores and submit ratings.
	RoleUser Role = "user"
	// RoleOwner indicates a store owner who can register and manage stores.
	RoleOwner Role = "owner"
	// RoleAdmin indicates a system administrator with unrestricted access.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleOwner, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a string to a Role, reporting whether the value is valid.
func ParseRole(s string) (Role, bool) {
	role := Role(s)

	return role, role.IsValid()
}
