package contribution

import (
	"context"
	"strings"
	"time"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
	"github.com/FaisalEngish/Kontrib/internal/database"
	"github.com/FaisalEngish/Kontrib/internal/group"
	"github.com/FaisalEngish/Kontrib/internal/metrics"
	"github.com/FaisalEngish/Kontrib/internal/notification"
	"github.com/FaisalEngish/Kontrib/internal/project"
)

// Common errors
var (
	ErrContributionNotFound = apperr.New(apperr.ErrNotFound, "contribution not found")
	ErrInvalidAmount        = apperr.New(apperr.ErrValidation, "amount must be greater than zero, below one trillion, with at most 2 decimal places")
	ErrTotalOutOfRange      = apperr.New(apperr.ErrPrecondition, "confirming would push the project total past the supported range")
	ErrGroupRequired        = apperr.New(apperr.ErrValidation, "group_id is required")
	ErrProjectMismatch      = apperr.New(apperr.ErrValidation, "project does not belong to this group")
	ErrNotGroupMember       = apperr.New(apperr.ErrValidation, "only group members can submit contributions")
	ErrProofTooLarge        = apperr.New(apperr.ErrValidation, "proof of payment is too large")
	ErrInvalidStatus        = apperr.New(apperr.ErrValidation, "status must be one of pending, confirmed, rejected")
	ErrNotReviewer          = apperr.New(apperr.ErrAuthorization, "only the group admin can confirm or reject contributions")
	ErrNotVisible           = apperr.New(apperr.ErrAuthorization, "you cannot view this contribution")
	ErrAlreadyResolved      = apperr.New(apperr.ErrInvalidState, "contribution has already been confirmed or rejected")
)

const maxProofLength = 5 << 20

// Store persists contributions. Resolve must apply the status change and
// the project total in one atomic unit, and only to a pending row.
type Store interface {
	Create(ctx context.Context, contributorID string, req *SubmitRequest) (*Contribution, error)
	GetByID(ctx context.Context, id string) (*Contribution, error)
	Resolve(ctx context.Context, id string, status Status, actorID string, at time.Time) (*Contribution, error)
	ListByGroups(ctx context.Context, groupIDs []string, status *Status) ([]*Contribution, error)
	ListByContributor(ctx context.Context, contributorID string) ([]*Contribution, error)
	StatusesFor(ctx context.Context, groupID, contributorID string) ([]Status, error)
}

// GroupReader is the slice of the group service the ledger depends on
type GroupReader interface {
	GetByID(ctx context.Context, id string) (*group.Group, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	ListIDsByAdmin(ctx context.Context, adminID string) ([]string, error)
}

// ProjectReader resolves projects named in a submission
type ProjectReader interface {
	GetByID(ctx context.Context, id string) (*project.Project, error)
}

// PartnerReader answers accountability partner questions
type PartnerReader interface {
	IsPartner(ctx context.Context, groupID, userID string) (bool, error)
	PartnerUserIDs(ctx context.Context, groupID string) ([]string, error)
}

// Notifier delivers fire-and-forget notifications
type Notifier interface {
	Notify(ctx context.Context, userID string, t notification.Type, contributionID *string) *notification.Notification
}

// Service is the contribution ledger
type Service struct {
	store    Store
	groups   GroupReader
	projects ProjectReader
	partners PartnerReader
	notifier Notifier
	now      func() time.Time
}

// NewService creates a new contribution service
func NewService(store Store, groups GroupReader, projects ProjectReader, partners PartnerReader, notifier Notifier) *Service {
	return &Service{
		store:    store,
		groups:   groups,
		projects: projects,
		partners: partners,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit records a pending contribution from actorID and tells the group's
// reviewers about it.
func (s *Service) Submit(ctx context.Context, actorID string, req *SubmitRequest) (*Contribution, error) {
	req.GroupID = strings.TrimSpace(req.GroupID)
	if req.GroupID == "" {
		return nil, ErrGroupRequired
	}
	if !req.Amount.IsPositive() || !req.Amount.Equal(req.Amount.Round(2)) || req.Amount.GreaterThan(database.MaxAmount) {
		return nil, ErrInvalidAmount
	}
	if req.ProofOfPayment != nil && len(*req.ProofOfPayment) > maxProofLength {
		return nil, ErrProofTooLarge
	}
	if req.ProjectID != nil && *req.ProjectID == "" {
		req.ProjectID = nil
	}

	g, err := s.groups.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if req.ProjectID != nil {
		p, err := s.projects.GetByID(ctx, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		if p.GroupID != g.ID {
			return nil, ErrProjectMismatch
		}
	}

	member, err := s.groups.IsMember(ctx, g.ID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotGroupMember
	}

	c, err := s.store.Create(ctx, actorID, req)
	if err != nil {
		return nil, err
	}
	metrics.ContributionsSubmitted.Inc()

	reviewers, err := s.reviewers(ctx, g)
	if err != nil {
		// the contribution is stored; reviewers will still see it in their lists
		reviewers = []string{g.AdminID}
	}
	for _, userID := range reviewers {
		if userID != actorID {
			s.notifier.Notify(ctx, userID, notification.TypePaymentSubmitted, &c.ID)
		}
	}

	return c, nil
}

// Confirm accepts a pending contribution and credits its project
func (s *Service) Confirm(ctx context.Context, id, actorID string) (*Contribution, error) {
	return s.resolve(ctx, id, actorID, StatusConfirmed, notification.TypePaymentConfirmed)
}

// Reject declines a pending contribution; project totals are unchanged
func (s *Service) Reject(ctx context.Context, id, actorID string) (*Contribution, error) {
	return s.resolve(ctx, id, actorID, StatusRejected, notification.TypePaymentRejected)
}

func (s *Service) resolve(ctx context.Context, id, actorID string, to Status, notice notification.Type) (*Contribution, error) {
	c, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, err := s.groups.GetByID(ctx, c.GroupID)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(actorID) {
		return nil, ErrNotReviewer
	}
	if c.Status.IsTerminal() {
		return nil, ErrAlreadyResolved
	}
	if to == StatusConfirmed && c.ProjectID != nil {
		p, err := s.projects.GetByID(ctx, *c.ProjectID)
		if err != nil {
			return nil, err
		}
		if p.CollectedAmount.Add(c.Amount).GreaterThan(database.MaxAmount) {
			return nil, ErrTotalOutOfRange
		}
	}

	resolved, err := s.store.Resolve(ctx, id, to, actorID, s.now())
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		// another reviewer resolved it first
		return nil, ErrAlreadyResolved
	}
	metrics.ContributionsResolved.WithLabelValues(string(to)).Inc()

	s.notifier.Notify(ctx, resolved.ContributorID, notice, &resolved.ID)
	return resolved, nil
}

// Get returns a contribution to its contributor, the group admin or a partner
func (s *Service) Get(ctx context.Context, id, actorID string) (*Contribution, error) {
	c, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.ContributorID == actorID {
		return c, nil
	}

	g, err := s.groups.GetByID(ctx, c.GroupID)
	if err != nil {
		return nil, err
	}
	if g.IsAdmin(actorID) {
		return c, nil
	}
	partner, err := s.partners.IsPartner(ctx, c.GroupID, actorID)
	if err != nil {
		return nil, err
	}
	if !partner {
		return nil, ErrNotVisible
	}
	return c, nil
}

// ListForGroup returns the group's contributions to one of its members
func (s *Service) ListForGroup(ctx context.Context, groupID, actorID string, status *Status) ([]*Contribution, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	member, err := s.groups.IsMember(ctx, g.ID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, group.ErrNotMember
	}
	return s.store.ListByGroups(ctx, []string{g.ID}, status)
}

// ListForAdmin returns contributions across every group adminID administers
func (s *Service) ListForAdmin(ctx context.Context, adminID string, status *Status) ([]*Contribution, error) {
	groupIDs, err := s.groups.ListIDsByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return []*Contribution{}, nil
	}
	return s.store.ListByGroups(ctx, groupIDs, status)
}

// ListMine returns the member's own contributions
func (s *Service) ListMine(ctx context.Context, userID string) ([]*Contribution, error) {
	return s.store.ListByContributor(ctx, userID)
}

// ContributionStatusFor summarises a member's standing in a group
func (s *Service) ContributionStatusFor(ctx context.Context, groupID, userID string) (MemberStatus, error) {
	statuses, err := s.store.StatusesFor(ctx, groupID, userID)
	if err != nil {
		return "", err
	}
	return memberStatus(statuses), nil
}

// FindRelated exposes the current state of a contribution to notifications
func (s *Service) FindRelated(ctx context.Context, id string) (*notification.RelatedContribution, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return &notification.RelatedContribution{
		ID:            c.ID,
		GroupID:       c.GroupID,
		ProjectID:     c.ProjectID,
		ContributorID: c.ContributorID,
		Amount:        c.Amount,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
	}, nil
}

func (s *Service) getByID(ctx context.Context, id string) (*Contribution, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrContributionNotFound
	}
	return c, nil
}

func (s *Service) reviewers(ctx context.Context, g *group.Group) ([]string, error) {
	partnerIDs, err := s.partners.PartnerUserIDs(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	return append([]string{g.AdminID}, partnerIDs...), nil
}
