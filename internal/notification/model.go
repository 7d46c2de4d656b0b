package notification

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type identifies what a notification is about
type Type string

const (
	TypePaymentSubmitted Type = "payment_submitted"
	TypePaymentConfirmed Type = "payment_confirmed"
	TypePaymentRejected  Type = "payment_rejected"
	TypePartnerAssigned  Type = "partner_assigned"
	TypePartnerRemoved   Type = "partner_removed"
	TypeMemberJoined     Type = "member_joined"
)

var templates = map[Type]struct{ title, message string }{
	TypePaymentSubmitted: {"New payment submitted", "A member submitted a payment that is waiting for review."},
	TypePaymentConfirmed: {"Payment confirmed", "Your payment has been confirmed by the group admin."},
	TypePaymentRejected:  {"Payment rejected", "Your payment was rejected by the group admin."},
	TypePartnerAssigned:  {"You are now an accountability partner", "The group admin added you as an accountability partner."},
	TypePartnerRemoved:   {"Accountability partner role removed", "The group admin removed you as an accountability partner."},
	TypeMemberJoined:     {"New member joined", "A new member joined your group."},
}

// Content returns the title and message shown for t
func (t Type) Content() (title, message string) {
	if c, ok := templates[t]; ok {
		return c.title, c.message
	}
	return "Notification", string(t)
}

// Notification represents a message addressed to one user
type Notification struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Type           Type      `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	ContributionID *string   `json:"contribution_id,omitempty"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// RelatedContribution is the current state of the contribution a
// notification points at, resolved when the notification is opened.
type RelatedContribution struct {
	ID            string          `json:"id"`
	GroupID       string          `json:"group_id"`
	ProjectID     *string         `json:"project_id,omitempty"`
	ContributorID string          `json:"contributor_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}
