package partner

import "time"

// MaxPerGroup is the number of accountability partners a group may have
const MaxPerGroup = 2

// Partner is a group member who co-oversees the group's contributions
type Partner struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Populated via JOIN
	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
