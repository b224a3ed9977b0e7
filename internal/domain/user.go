package domain

import "time"

// Role is a closed set checked by simple equality. There is no hierarchy:
// an admin is not "also a user" for authorization purposes.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string
	FirstName    string
	LastName     string
	EmailID      string // unique, immutable login identifier
	PasswordHash string // argon2id PHC encoded, never the plaintext
	Role         Role
	ProfileImage string // opaque base64 blob or external URL, optional

	// ProblemsSolved holds ids of problems with at least one accepted
	// submission by this user.
	ProblemsSolved []string

	CreatedAt time.Time
	UpdatedAt time.Time
}
