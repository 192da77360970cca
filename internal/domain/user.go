package domain

import (
	"time"
)

// Role is a user's role. The set is closed: the workflow engine switches
// exhaustively over it and treats anything else as an invalid identity.
type Role string

const (
	// RoleAdmin may edit products directly and decide change requests.
	RoleAdmin Role = "admin"

	// RoleTeamMember may only propose edits, which are queued for review.
	RoleTeamMember Role = "team_member"
)

// Valid reports whether r is a recognized role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeamMember
}

// ValidRoles returns the set of valid user roles.
func ValidRoles() []Role {
	return []Role{RoleAdmin, RoleTeamMember}
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role Role
}

// User represents a registered user.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
