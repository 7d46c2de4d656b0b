package group

import "time"

// Group represents a savings group governed by a single admin
type Group struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       *string   `json:"description,omitempty"`
	AdminID           string    `json:"admin_id"`
	RegistrationToken string    `json:"registration_token"`
	AcceptingMembers  bool      `json:"accepting_members"`
	CreatedAt         time.Time `json:"created_at"`
}

// IsAdmin reports whether userID administers the group
func (g *Group) IsAdmin(userID string) bool {
	return g.AdminID == userID
}

// GroupMember represents a user's membership in a group
type GroupMember struct {
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`

	// Populated from JOIN
	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
