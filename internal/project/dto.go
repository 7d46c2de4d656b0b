package project

import (
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// CreateProjectRequest represents the request to create a project
type CreateProjectRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=100"`
	Description  *string         `json:"description,omitempty"`
	TargetAmount decimal.Decimal `json:"target_amount" validate:"required,gt=0"`
	Deadline     *string         `json:"deadline,omitempty"` // YYYY-MM-DD
}

// ProjectResponse represents the response for a project
type ProjectResponse struct {
	ID              string          `json:"id"`
	GroupID         string          `json:"group_id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	CollectedAmount decimal.Decimal `json:"collected_amount"`
	Progress        decimal.Decimal `json:"progress_percent"`
	Deadline        *string         `json:"deadline,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

// ToResponse converts a Project model to a ProjectResponse DTO
func (p *Project) ToResponse() *ProjectResponse {
	resp := &ProjectResponse{
		ID:              p.ID,
		GroupID:         p.GroupID,
		Name:            p.Name,
		Description:     p.Description,
		TargetAmount:    p.TargetAmount,
		CollectedAmount: p.CollectedAmount,
		Progress:        p.Progress(),
		CreatedAt:       p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.Deadline != nil {
		d := p.Deadline.Format(dateLayout)
		resp.Deadline = &d
	}
	return resp
}
