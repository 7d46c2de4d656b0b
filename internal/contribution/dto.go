package contribution

import (
	"github.com/shopspring/decimal"
)

// SubmitRequest represents a member reporting a payment
type SubmitRequest struct {
	GroupID        string          `json:"group_id" validate:"required"`
	ProjectID      *string         `json:"project_id,omitempty"`
	Amount         decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Description    *string         `json:"description,omitempty"`
	TransactionRef *string         `json:"transaction_ref,omitempty"`
	ProofOfPayment *string         `json:"proof_of_payment,omitempty"` // data URI or storage reference
}

// ContributionResponse represents the response for a contribution
type ContributionResponse struct {
	ID             string          `json:"id"`
	GroupID        string          `json:"group_id"`
	ProjectID      *string         `json:"project_id,omitempty"`
	ContributorID  string          `json:"contributor_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         Status          `json:"status"`
	Description    *string         `json:"description,omitempty"`
	TransactionRef *string         `json:"transaction_ref,omitempty"`
	ProofOfPayment *string         `json:"proof_of_payment,omitempty"`
	CreatedAt      string          `json:"created_at"`
	ResolvedAt     *string         `json:"resolved_at,omitempty"`
	ResolvedBy     *string         `json:"resolved_by,omitempty"`
}

// ToResponse converts a Contribution model to a ContributionResponse DTO
func (c *Contribution) ToResponse() *ContributionResponse {
	resp := &ContributionResponse{
		ID:             c.ID,
		GroupID:        c.GroupID,
		ProjectID:      c.ProjectID,
		ContributorID:  c.ContributorID,
		Amount:         c.Amount,
		Status:         c.Status,
		Description:    c.Description,
		TransactionRef: c.TransactionRef,
		ProofOfPayment: c.ProofOfPayment,
		CreatedAt:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		ResolvedBy:     c.ResolvedBy,
	}
	if c.ResolvedAt != nil {
		at := c.ResolvedAt.Format("2006-01-02T15:04:05Z")
		resp.ResolvedAt = &at
	}
	return resp
}

func toResponses(contributions []*Contribution) []*ContributionResponse {
	out := make([]*ContributionResponse, len(contributions))
	for i, c := range contributions {
		out[i] = c.ToResponse()
	}
	return out
}
