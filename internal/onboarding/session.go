package onboarding

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
)

// Stage is a step of the join flow
type Stage string

const (
	StageLanding    Stage = "landing"
	StagePhone      Stage = "phone"
	StageOTP        Stage = "otp"
	StageOnboarding Stage = "onboarding"
	StageJoined     Stage = "joined"
)

// back lists the stages a candidate may step back from
var back = map[Stage]Stage{
	StagePhone: StageLanding,
	StageOTP:   StagePhone,
}

// Session is one candidate's progress through the join flow
type Session struct {
	ID                string `json:"id"`
	GroupID           string `json:"group_id"`
	RegistrationToken string `json:"registration_token"`
	Stage             Stage  `json:"stage"`
	PhoneNumber       string `json:"phone_number,omitempty"`
	UserID            string `json:"user_id,omitempty"`
	Verified          bool   `json:"verified"`
	// CodeExpiresAt is when the last code sent in this session lapses
	CodeExpiresAt time.Time `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var (
	ErrSessionNotFound = apperr.New(apperr.ErrNotFound, "onboarding session not found or expired")
	ErrWrongStage      = apperr.New(apperr.ErrInvalidState, "this step is not available at the current stage")
)

// SessionStore keeps sessions in process memory. Every mutation runs under
// the store lock so a session moves through one transition at a time.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose idle sessions expire after ttl
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create opens a session at the landing stage
func (s *SessionStore) Create(groupID, token string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	sess := &Session{
		ID:                uuid.NewString(),
		GroupID:           groupID,
		RegistrationToken: token,
		Stage:             StageLanding,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.sessions[sess.ID] = sess
	return *sess
}

// Get returns a copy of the session
func (s *SessionStore) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.live(id)
	if err != nil {
		return Session{}, err
	}
	return *sess, nil
}

// Update applies fn to the session if it is at one of the allowed stages.
// fn may return an error to abort; the session is left unchanged then.
func (s *SessionStore) Update(id string, allowed []Stage, fn func(*Session) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.live(id)
	if err != nil {
		return Session{}, err
	}
	if !stageIn(sess.Stage, allowed) {
		return *sess, ErrWrongStage
	}

	next := *sess
	if err := fn(&next); err != nil {
		return *sess, err
	}
	next.UpdatedAt = s.now()
	*sess = next
	return next, nil
}

func (s *SessionStore) live(id string) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.now().Sub(sess.UpdatedAt) > s.ttl {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) sweep(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.UpdatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func stageIn(stage Stage, allowed []Stage) bool {
	for _, a := range allowed {
		if stage == a {
			return true
		}
	}
	return false
}
