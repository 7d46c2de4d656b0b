package partner

import (
	"context"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
	"github.com/FaisalEngish/Kontrib/internal/group"
	"github.com/FaisalEngish/Kontrib/internal/notification"
)

// Common errors
var (
	ErrNotGroupMember  = apperr.New(apperr.ErrPrecondition, "user is not a member of this group")
	ErrAlreadyPartner  = apperr.New(apperr.ErrPrecondition, "user is already an accountability partner")
	ErrPartnerLimit    = apperr.New(apperr.ErrPrecondition, "a group can have at most 2 accountability partners")
	ErrAdminNotAllowed = apperr.New(apperr.ErrPrecondition, "the group admin cannot be an accountability partner")
	ErrPartnerNotFound = apperr.New(apperr.ErrNotFound, "accountability partner not found")
	ErrUserRequired    = apperr.New(apperr.ErrValidation, "user_id is required")
)

// GroupReader is the slice of the group service partners depend on
type GroupReader interface {
	GetByID(ctx context.Context, id string) (*group.Group, error)
	GetMembers(ctx context.Context, groupID string) ([]*group.GroupMember, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// Notifier delivers fire-and-forget notifications
type Notifier interface {
	Notify(ctx context.Context, userID string, t notification.Type, contributionID *string) *notification.Notification
}

// Service handles accountability partner business logic
type Service struct {
	repo     *Repository
	groups   GroupReader
	notifier Notifier
}

// NewService creates a new partner service
func NewService(repo *Repository, groups GroupReader, notifier Notifier) *Service {
	return &Service{repo: repo, groups: groups, notifier: notifier}
}

// AddPartner makes candidateID a partner of the group and returns the
// group's partners afterwards. Only the group admin may assign.
func (s *Service) AddPartner(ctx context.Context, groupID, candidateID, actorID string) ([]*Partner, error) {
	if candidateID == "" {
		return nil, ErrUserRequired
	}

	g, err := s.requireAdmin(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if g.IsAdmin(candidateID) {
		return nil, ErrAdminNotAllowed
	}

	if _, err := s.repo.Add(ctx, g.ID, candidateID); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, candidateID, notification.TypePartnerAssigned, nil)

	return s.repo.ListByGroup(ctx, g.ID)
}

// RemovePartner revokes the partner role; only the group admin may revoke
func (s *Service) RemovePartner(ctx context.Context, groupID, partnerID, actorID string) error {
	g, err := s.requireAdmin(ctx, groupID, actorID)
	if err != nil {
		return err
	}

	removed, err := s.repo.Remove(ctx, g.ID, partnerID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrPartnerNotFound
	}

	s.notifier.Notify(ctx, partnerID, notification.TypePartnerRemoved, nil)
	return nil
}

// ListPartners returns the group's partners to one of its members
func (s *Service) ListPartners(ctx context.Context, groupID, actorID string) ([]*Partner, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	ok, err := s.groups.IsMember(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, group.ErrNotMember
	}
	return s.repo.ListByGroup(ctx, groupID)
}

// ListEligibleMembers returns members who are neither the admin nor already
// partners. It is computed on each call; assignment re-checks the rules.
func (s *Service) ListEligibleMembers(ctx context.Context, groupID, actorID string) ([]*group.GroupMember, error) {
	g, err := s.requireAdmin(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}

	members, err := s.groups.GetMembers(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	partners, err := s.repo.ListByGroup(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(partners)+1)
	taken[g.AdminID] = true
	for _, p := range partners {
		taken[p.UserID] = true
	}

	eligible := []*group.GroupMember{}
	for _, m := range members {
		if !taken[m.UserID] {
			eligible = append(eligible, m)
		}
	}
	return eligible, nil
}

// IsPartner reports whether userID is a partner of groupID
func (s *Service) IsPartner(ctx context.Context, groupID, userID string) (bool, error) {
	return s.repo.Exists(ctx, groupID, userID)
}

// PartnerUserIDs returns the user IDs of the group's partners
func (s *Service) PartnerUserIDs(ctx context.Context, groupID string) ([]string, error) {
	partners, err := s.repo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, len(partners))
	for i, p := range partners {
		userIDs[i] = p.UserID
	}
	return userIDs, nil
}

func (s *Service) requireAdmin(ctx context.Context, groupID, actorID string) (*group.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(actorID) {
		return nil, group.ErrNotGroupAdmin
	}
	return g, nil
}
