package group

import (
	"context"
	"strings"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
	"github.com/FaisalEngish/Kontrib/internal/user"
)

// Common errors
var (
	ErrGroupNotFound       = apperr.New(apperr.ErrNotFound, "group not found")
	ErrNameRequired        = apperr.New(apperr.ErrValidation, "group name is required")
	ErrNotAdminUser        = apperr.New(apperr.ErrAuthorization, "only admin users can create groups")
	ErrNotGroupAdmin       = apperr.New(apperr.ErrAuthorization, "only the group admin can perform this action")
	ErrNotMember           = apperr.New(apperr.ErrAuthorization, "you are not a member of this group")
	ErrNotAcceptingMembers = apperr.New(apperr.ErrPrecondition, "group is no longer accepting members")
	ErrNothingToUpdate     = apperr.New(apperr.ErrValidation, "no changes requested")
)

// UserGetter resolves users for role checks
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// Service handles group business logic
type Service struct {
	repo  *Repository
	users UserGetter
}

// NewService creates a new group service
func NewService(repo *Repository, users UserGetter) *Service {
	return &Service{repo: repo, users: users}
}

// Create creates a new group with the acting admin as its administrator and first member
func (s *Service) Create(ctx context.Context, actorID string, req *CreateGroupRequest) (*Group, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 100 {
		return nil, ErrNameRequired
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrNotAdminUser
	}

	return s.repo.Create(ctx, actor.ID, NewRegistrationToken(req.Name), req)
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id string) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByRegistrationToken resolves the group behind a join link
func (s *Service) GetByRegistrationToken(ctx context.Context, token string) (*Group, error) {
	group, err := s.repo.GetByRegistrationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithMembers retrieves a group with all its members; only members may view it
func (s *Service) GetByIDWithMembers(ctx context.Context, id, actorID string) (*Group, []*GroupMember, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !containsUser(members, actorID) {
		return nil, nil, ErrNotMember
	}

	return group, members, nil
}

// ListByUserID retrieves all groups for a user
func (s *Service) ListByUserID(ctx context.Context, userID string) ([]*Group, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// ListIDsByAdmin returns the groups administered by adminID
func (s *Service) ListIDsByAdmin(ctx context.Context, adminID string) ([]string, error) {
	return s.repo.ListIDsByAdmin(ctx, adminID)
}

// Update changes group settings; admin only
func (s *Service) Update(ctx context.Context, id, actorID string, req *UpdateGroupRequest) (*Group, error) {
	if req.Name == nil && req.Description == nil && req.AcceptingMembers == nil {
		return nil, ErrNothingToUpdate
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > 100 {
			return nil, ErrNameRequired
		}
		req.Name = &name
	}

	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(actorID) {
		return nil, ErrNotGroupAdmin
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrGroupNotFound
	}
	return updated, nil
}

// IsMember reports whether the user currently belongs to the group
func (s *Service) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	return member != nil, nil
}

// Join adds the user to the group. Joining twice is not an error; created
// reports whether a new membership was recorded.
func (s *Service) Join(ctx context.Context, groupID, userID string) (member *GroupMember, created bool, err error) {
	group, err := s.GetByID(ctx, groupID)
	if err != nil {
		return nil, false, err
	}

	member, created, err = s.repo.AddMember(ctx, group.ID, userID)
	if err != nil {
		return nil, false, err
	}
	if member == nil {
		// not inserted and not present: the group closed membership
		return nil, false, ErrNotAcceptingMembers
	}
	return member, created, nil
}

// GetMembers retrieves all members of a group
func (s *Service) GetMembers(ctx context.Context, groupID string) ([]*GroupMember, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.GetMembers(ctx, groupID)
}

// CountMembers returns the group's member count
func (s *Service) CountMembers(ctx context.Context, groupID string) (int, error) {
	return s.repo.CountMembers(ctx, groupID)
}

func containsUser(members []*GroupMember, userID string) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
