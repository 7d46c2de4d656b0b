package user

import "time"

// Role is fixed when the user is created
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User represents a user in the system
type User struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	PhoneNumber string    `json:"phone_number"`
	FullName    string    `json:"full_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsAdmin reports whether the user registered as a group administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
