package notification

import (
	"context"
	"log"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
	"github.com/FaisalEngish/Kontrib/internal/metrics"
)

// Common errors
var (
	ErrNotificationNotFound = apperr.New(apperr.ErrNotFound, "notification not found")
	ErrNotRecipient         = apperr.New(apperr.ErrAuthorization, "not the recipient of this notification")
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ContributionFinder resolves the contribution a notification refers to
type ContributionFinder interface {
	FindRelated(ctx context.Context, contributionID string) (*RelatedContribution, error)
}

// Opened is a notification together with the current state of its contribution
type Opened struct {
	Notification *Notification
	Contribution *RelatedContribution
}

// Service handles notification business logic
type Service struct {
	repo          *Repository
	contributions ContributionFinder
}

// NewService creates a new notification service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// SetContributionFinder wires the ledger in after construction; the ledger
// itself depends on this service for dispatch.
func (s *Service) SetContributionFinder(f ContributionFinder) {
	s.contributions = f
}

// Notify stores a notification for userID. It never fails the caller: a
// storage error is logged and counted and nil is returned.
func (s *Service) Notify(ctx context.Context, userID string, t Type, contributionID *string) *Notification {
	title, message := t.Content()
	n, err := s.repo.Create(ctx, userID, t, title, message, contributionID)
	if err != nil {
		metrics.NotificationFailures.Inc()
		log.Printf("notification: dropped %s for user %s: %v", t, userID, err)
		return nil
	}
	return n
}

// GetByID retrieves a notification owned by actorID
func (s *Service) GetByID(ctx context.Context, id, actorID string) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	if n.UserID != actorID {
		return nil, ErrNotRecipient
	}
	return n, nil
}

// MarkRead marks a notification as read. Marking an already-read
// notification succeeds without changes.
func (s *Service) MarkRead(ctx context.Context, id, actorID string) (*Notification, error) {
	n, err := s.GetByID(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}

	if err := s.repo.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

// MarkAllRead marks all of the user's notifications as read
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// ListUnread returns the user's unread notifications, newest first
func (s *Service) ListUnread(ctx context.Context, userID string) ([]*Notification, error) {
	return s.repo.List(ctx, userID, true, 0)
}

// ListRecent returns up to limit notifications, newest first
func (s *Service) ListRecent(ctx context.Context, userID string, limit int) ([]*Notification, error) {
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.repo.List(ctx, userID, false, limit)
}

// UnreadCount returns the number of unread notifications
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// Open marks the notification read and loads its contribution as it is now
func (s *Service) Open(ctx context.Context, id, actorID string) (*Opened, error) {
	n, err := s.MarkRead(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	opened := &Opened{Notification: n}
	if n.ContributionID != nil && s.contributions != nil {
		related, err := s.contributions.FindRelated(ctx, *n.ContributionID)
		if err != nil {
			return nil, err
		}
		opened.Contribution = related
	}
	return opened, nil
}
