package contribution

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents where a contribution is in its review
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// ParseStatus validates a status filter value
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusRejected:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// IsTerminal reports whether no further transition is allowed
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusRejected
}

// Contribution is a payment a member reports toward a group or project
type Contribution struct {
	ID             string          `json:"id"`
	GroupID        string          `json:"group_id"`
	ProjectID      *string         `json:"project_id,omitempty"`
	ContributorID  string          `json:"contributor_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         Status          `json:"status"`
	Description    *string         `json:"description,omitempty"`
	TransactionRef *string         `json:"transaction_ref,omitempty"`
	ProofOfPayment *string         `json:"proof_of_payment,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	ResolvedBy     *string         `json:"resolved_by,omitempty"`
}

// MemberStatus is the payment standing shown to a member for a group
type MemberStatus string

const (
	MemberNotPaid MemberStatus = "Not Paid"
	MemberPending MemberStatus = "Pending"
	MemberPaid    MemberStatus = "Paid"
)

// memberStatus folds the statuses of a member's contributions; any
// confirmed payment counts as paid.
func memberStatus(statuses []Status) MemberStatus {
	result := MemberNotPaid
	for _, s := range statuses {
		switch s {
		case StatusConfirmed:
			return MemberPaid
		case StatusPending:
			result = MemberPending
		}
	}
	return result
}
