package project

import (
	"context"
	"strings"
	"time"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
	"github.com/FaisalEngish/Kontrib/internal/database"
	"github.com/FaisalEngish/Kontrib/internal/group"
)

// Common errors
var (
	ErrProjectNotFound = apperr.New(apperr.ErrNotFound, "project not found")
	ErrNameRequired    = apperr.New(apperr.ErrValidation, "project name is required")
	ErrInvalidTarget   = apperr.New(apperr.ErrValidation, "target amount must be greater than zero, below one trillion, with at most 2 decimal places")
	ErrInvalidDeadline = apperr.New(apperr.ErrValidation, "deadline must be a date in YYYY-MM-DD format")
)

// GroupReader is the slice of the group service projects depend on
type GroupReader interface {
	GetByID(ctx context.Context, id string) (*group.Group, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// Service handles project business logic
type Service struct {
	repo   *Repository
	groups GroupReader
}

// NewService creates a new project service
func NewService(repo *Repository, groups GroupReader) *Service {
	return &Service{repo: repo, groups: groups}
}

// Create adds a project to a group; only the group admin may do so
func (s *Service) Create(ctx context.Context, groupID, actorID string, req *CreateProjectRequest) (*Project, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 100 {
		return nil, ErrNameRequired
	}
	if !req.TargetAmount.IsPositive() || !req.TargetAmount.Equal(req.TargetAmount.Round(2)) || req.TargetAmount.GreaterThan(database.MaxAmount) {
		return nil, ErrInvalidTarget
	}

	var deadline *time.Time
	if req.Deadline != nil && *req.Deadline != "" {
		d, err := time.Parse(dateLayout, *req.Deadline)
		if err != nil {
			return nil, ErrInvalidDeadline
		}
		deadline = &d
	}

	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(actorID) {
		return nil, group.ErrNotGroupAdmin
	}

	return s.repo.Create(ctx, g.ID, req.Name, req.Description, req.TargetAmount, deadline)
}

// GetByID retrieves a project without access checks
func (s *Service) GetByID(ctx context.Context, id string) (*Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// GetForMember retrieves a project visible to members of its group
func (s *Service) GetForMember(ctx context.Context, id, actorID string) (*Project, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, p.GroupID, actorID); err != nil {
		return nil, err
	}
	return p, nil
}

// ListByGroup returns every project of the group without access checks
func (s *Service) ListByGroup(ctx context.Context, groupID string) ([]*Project, error) {
	return s.repo.ListByGroup(ctx, groupID)
}

// ListForMember returns the group's projects to one of its members
func (s *Service) ListForMember(ctx context.Context, groupID, actorID string) ([]*Project, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListByGroup(ctx, groupID)
}

func (s *Service) requireMember(ctx context.Context, groupID, userID string) error {
	ok, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return group.ErrNotMember
	}
	return nil
}
