package group

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty"`
}

// UpdateGroupRequest renames a group or opens and closes it to new members.
// Omitted fields are left as they are; the registration link never changes.
type UpdateGroupRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description      *string `json:"description,omitempty"`
	AcceptingMembers *bool   `json:"accepting_members,omitempty"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Description       *string           `json:"description,omitempty"`
	AdminID           string            `json:"admin_id"`
	RegistrationToken string            `json:"registration_token"`
	AcceptingMembers  bool              `json:"accepting_members"`
	CreatedAt         string            `json:"created_at"`
	Members           []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents a member in a group response
type MemberResponse struct {
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	IsAdmin     bool   `json:"is_admin"`
	JoinedAt    string `json:"joined_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:                g.ID,
		Name:              g.Name,
		Description:       g.Description,
		AdminID:           g.AdminID,
		RegistrationToken: g.RegistrationToken,
		AcceptingMembers:  g.AcceptingMembers,
		CreatedAt:         g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a GroupMember model to a MemberResponse DTO
func (m *GroupMember) ToResponse(adminID string) *MemberResponse {
	return &MemberResponse{
		UserID:      m.UserID,
		FullName:    m.FullName,
		PhoneNumber: m.PhoneNumber,
		IsAdmin:     m.UserID == adminID,
		JoinedAt:    m.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}
