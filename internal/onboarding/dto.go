package onboarding

import (
	"time"

	"github.com/FaisalEngish/Kontrib/internal/contribution"
	"github.com/FaisalEngish/Kontrib/internal/project"
	"github.com/FaisalEngish/Kontrib/internal/user"
)

// SendOTPRequest carries the phone number to verify
type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// VerifyOTPRequest carries the code the candidate received
type VerifyOTPRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

// SignInRequest asks for a sign-in code, or redeems one when Code is set
type SignInRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Code        string `json:"code,omitempty"`
}

// TokenResponse hands a user their access token
type TokenResponse struct {
	User        *user.UserResponse `json:"user"`
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	ExpiresAt   string             `json:"expires_at"`
}

// SessionResponse is the public view of a session
type SessionResponse struct {
	ID          string `json:"id"`
	GroupID     string `json:"group_id"`
	Stage       Stage  `json:"stage"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Verified    bool   `json:"verified"`
}

// LandingResponse is the group summary shown on a registration link
type LandingResponse struct {
	GroupID          string                     `json:"group_id"`
	Name             string                     `json:"name"`
	Description      *string                    `json:"description,omitempty"`
	AcceptingMembers bool                       `json:"accepting_members"`
	MemberCount      int                        `json:"member_count"`
	Summary          project.Summary            `json:"summary"`
	Projects         []*project.ProjectResponse `json:"projects"`
}

// StartResponse is returned when a registration link is opened
type StartResponse struct {
	Session *SessionResponse `json:"session"`
	Landing *LandingResponse `json:"landing"`
}

// DetailResponse is the group view after verification
type DetailResponse struct {
	*LandingResponse
	ContributionStatus contribution.MemberStatus `json:"contribution_status"`
}

// SessionDetailResponse is a session with its group detail when available
type SessionDetailResponse struct {
	Session *SessionResponse `json:"session"`
	Detail  *DetailResponse  `json:"detail,omitempty"`
}

// VerifyResponse hands the verified candidate their access token
type VerifyResponse struct {
	Session *SessionResponse `json:"session"`
	*TokenResponse
}

func newTokenResponse(u *user.User, token string, expiresAt time.Time) *TokenResponse {
	return &TokenResponse{
		User:        u.ToResponse(),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Session to a SessionResponse
func (s Session) ToResponse() *SessionResponse {
	return &SessionResponse{
		ID:          s.ID,
		GroupID:     s.GroupID,
		Stage:       s.Stage,
		PhoneNumber: s.PhoneNumber,
		Verified:    s.Verified,
	}
}

// ToResponse converts a Landing to a LandingResponse
func (l *Landing) ToResponse() *LandingResponse {
	projects := make([]*project.ProjectResponse, len(l.Projects))
	for i, p := range l.Projects {
		projects[i] = p.ToResponse()
	}
	return &LandingResponse{
		GroupID:          l.Group.ID,
		Name:             l.Group.Name,
		Description:      l.Group.Description,
		AcceptingMembers: l.Group.AcceptingMembers,
		MemberCount:      l.MemberCount,
		Summary:          l.Summary,
		Projects:         projects,
	}
}

// ToResponse converts a Detail to a DetailResponse
func (d *Detail) ToResponse() *DetailResponse {
	return &DetailResponse{
		LandingResponse:    d.Landing.ToResponse(),
		ContributionStatus: d.ContributionStatus,
	}
}
