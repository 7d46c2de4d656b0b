package project

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is a savings target inside a group
type Project struct {
	ID              string          `json:"id"`
	GroupID         string          `json:"group_id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	CollectedAmount decimal.Decimal `json:"collected_amount"`
	Deadline        *time.Time      `json:"deadline,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Progress returns collected/target as a percentage, rounded to two places.
// Over-collection is reported as is.
func (p *Project) Progress() decimal.Decimal {
	if !p.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return p.CollectedAmount.Mul(decimal.NewFromInt(100)).Div(p.TargetAmount).Round(2)
}

// Summary aggregates the projects of one group
type Summary struct {
	TotalTarget     decimal.Decimal `json:"total_target"`
	TotalCollected  decimal.Decimal `json:"total_collected"`
	NearestDeadline *time.Time      `json:"nearest_deadline,omitempty"`
	ProjectCount    int             `json:"project_count"`
}

// Summarize totals the projects and picks the earliest deadline that has not
// passed as of now.
func Summarize(projects []*Project, now time.Time) Summary {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	s := Summary{
		TotalTarget:    decimal.Zero,
		TotalCollected: decimal.Zero,
		ProjectCount:   len(projects),
	}
	for _, p := range projects {
		s.TotalTarget = s.TotalTarget.Add(p.TargetAmount)
		s.TotalCollected = s.TotalCollected.Add(p.CollectedAmount)
		if p.Deadline == nil || p.Deadline.Before(today) {
			continue
		}
		if s.NearestDeadline == nil || p.Deadline.Before(*s.NearestDeadline) {
			d := *p.Deadline
			s.NearestDeadline = &d
		}
	}
	return s
}
