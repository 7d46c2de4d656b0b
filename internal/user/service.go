package user

import (
	"context"
	"errors"
	"strings"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
)

// Common errors
var (
	ErrUserNotFound      = apperr.New(apperr.ErrNotFound, "user not found")
	ErrPhoneAlreadyInUse = apperr.New(apperr.ErrPrecondition, "phone number already registered")
	ErrInvalidRole       = apperr.New(apperr.ErrValidation, "role must be admin or member")
	ErrNameRequired      = apperr.New(apperr.ErrValidation, "full name is required")
)

// Service handles user business logic
type Service struct {
	repo *Repository
}

// NewService creates a new user service with repository dependency injected
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a user with an explicit role
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, ErrNameRequired
	}
	phone, err := NormalizePhone(req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneAlreadyInUse
	}

	return s.repo.Create(ctx, phone, name, req.Role)
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByPhone retrieves a user by their normalised phone number
func (s *Service) GetByPhone(ctx context.Context, phone string) (*User, error) {
	user, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// FindOrCreateMember resolves the user owning a verified phone number,
// registering a new member when none exists. phone must already be normalised.
func (s *Service) FindOrCreateMember(ctx context.Context, phone string) (*User, error) {
	existing, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user, err := s.repo.Create(ctx, phone, "", RoleMember)
	if errors.Is(err, ErrPhoneAlreadyInUse) {
		// registered concurrently by another verification of the same number
		return s.repo.GetByPhone(ctx, phone)
	}
	return user, err
}
