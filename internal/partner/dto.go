package partner

import "github.com/FaisalEngish/Kontrib/internal/group"

// AddPartnerRequest names the member to promote
type AddPartnerRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// PartnerResponse represents an accountability partner
type PartnerResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	CreatedAt   string `json:"created_at"`
}

// EligibleMemberResponse is a member who can still be made a partner
type EligibleMemberResponse struct {
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

// ToResponse converts a Partner model to a PartnerResponse DTO
func (p *Partner) ToResponse() *PartnerResponse {
	return &PartnerResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		FullName:    p.FullName,
		PhoneNumber: p.PhoneNumber,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func toResponses(partners []*Partner) []*PartnerResponse {
	out := make([]*PartnerResponse, len(partners))
	for i, p := range partners {
		out[i] = p.ToResponse()
	}
	return out
}

func toEligibleResponses(members []*group.GroupMember) []*EligibleMemberResponse {
	out := make([]*EligibleMemberResponse, len(members))
	for i, m := range members {
		out[i] = &EligibleMemberResponse{
			UserID:      m.UserID,
			FullName:    m.FullName,
			PhoneNumber: m.PhoneNumber,
		}
	}
	return out
}
