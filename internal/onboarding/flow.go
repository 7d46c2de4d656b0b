package onboarding

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
	"github.com/FaisalEngish/Kontrib/internal/contribution"
	"github.com/FaisalEngish/Kontrib/internal/group"
	"github.com/FaisalEngish/Kontrib/internal/metrics"
	"github.com/FaisalEngish/Kontrib/internal/notification"
	"github.com/FaisalEngish/Kontrib/internal/project"
	"github.com/FaisalEngish/Kontrib/internal/user"
)

// Common errors
var (
	ErrCodeFormat      = apperr.New(apperr.ErrValidation, "verification code must be 6 digits")
	ErrCodeExpired     = apperr.New(apperr.ErrExpiredOTP, "verification code has expired or was already used, request a new one")
	ErrCodeInvalid     = apperr.New(apperr.ErrInvalidOTP, "incorrect verification code")
	ErrTooManyAttempts = apperr.New(apperr.ErrExpiredOTP, "too many incorrect attempts, request a new code")
	ErrDispatchFailed  = apperr.New(apperr.ErrUnavailable, "could not send the verification code, please try again")
	ErrNotVerified     = apperr.New(apperr.ErrInvalidState, "phone number has not been verified in this session")
	ErrCodeBusy        = apperr.New(apperr.ErrInvalidOTP, "verification code is being checked by another attempt, try again")
)

// GroupDirectory is the slice of the group service the flow depends on
type GroupDirectory interface {
	GetByRegistrationToken(ctx context.Context, token string) (*group.Group, error)
	GetByID(ctx context.Context, id string) (*group.Group, error)
	CountMembers(ctx context.Context, groupID string) (int, error)
	Join(ctx context.Context, groupID, userID string) (*group.GroupMember, bool, error)
}

// ProjectLister lists a group's projects for the landing page
type ProjectLister interface {
	ListByGroup(ctx context.Context, groupID string) ([]*project.Project, error)
}

// UserResolver turns a verified phone number into a user
type UserResolver interface {
	FindOrCreateMember(ctx context.Context, phone string) (*user.User, error)
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	Issue(userID, role string) (string, time.Time, error)
}

// StatusReader reports a member's contribution standing
type StatusReader interface {
	ContributionStatusFor(ctx context.Context, groupID, userID string) (contribution.MemberStatus, error)
}

// Notifier delivers fire-and-forget notifications
type Notifier interface {
	Notify(ctx context.Context, userID string, t notification.Type, contributionID *string) *notification.Notification
}

// Deps are the services the flow coordinates
type Deps struct {
	Groups        GroupDirectory
	Projects      ProjectLister
	Users         UserResolver
	Lookup        UserLookup
	Tokens        TokenIssuer
	Contributions StatusReader
	Notifier      Notifier
	Sender        Sender
	Codes         CodeStore
}

// Options tune code issuance
type Options struct {
	CodeTTL        time.Duration
	ResendInterval time.Duration
	MaxAttempts    int
	SessionTTL     time.Duration
}

// Landing is what a candidate sees before joining
type Landing struct {
	Group       *group.Group
	MemberCount int
	Summary     project.Summary
	Projects    []*project.Project
}

// Detail is the group view shown after verification
type Detail struct {
	Landing
	ContributionStatus contribution.MemberStatus
}

// Verified is the outcome of a successful code check
type Verified struct {
	Session   Session
	User      *user.User
	Token     string
	ExpiresAt time.Time
}

// Flow drives candidates from a registration link to group membership
type Flow struct {
	deps     Deps
	opts     Options
	sessions *SessionStore
	throttle *Throttle
	now      func() time.Time
}

// NewFlow creates an onboarding flow
func NewFlow(deps Deps, opts Options) *Flow {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = 5 * time.Minute
	}
	return &Flow{
		deps:     deps,
		opts:     opts,
		sessions: NewSessionStore(opts.SessionTTL),
		throttle: NewThrottle(opts.ResendInterval),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a session for the group behind a registration link
func (f *Flow) Start(ctx context.Context, token string) (Session, *Landing, error) {
	g, err := f.deps.Groups.GetByRegistrationToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return Session{}, nil, err
	}

	landing, err := f.landing(ctx, g)
	if err != nil {
		return Session{}, nil, err
	}
	return f.sessions.Create(g.ID, g.RegistrationToken), landing, nil
}

// Session returns the current state of a session
func (f *Flow) Session(sessionID string) (Session, error) {
	return f.sessions.Get(sessionID)
}

// Join moves from the landing page to phone entry
func (f *Flow) Join(ctx context.Context, sessionID string) (Session, error) {
	sess, err := f.sessions.Get(sessionID)
	if err != nil {
		return Session{}, err
	}
	g, err := f.deps.Groups.GetByID(ctx, sess.GroupID)
	if err != nil {
		return Session{}, err
	}
	if !g.AcceptingMembers {
		return sess, group.ErrNotAcceptingMembers
	}

	return f.sessions.Update(sessionID, []Stage{StageLanding}, func(s *Session) error {
		s.Stage = StagePhone
		return nil
	})
}

// SendOTP issues a code to phone. It is also the resend action while the
// session waits for a code. The stage only advances once the code is out.
func (f *Flow) SendOTP(ctx context.Context, sessionID, rawPhone string) (Session, error) {
	sendable := []Stage{StagePhone, StageOTP}

	sess, err := f.sessions.Get(sessionID)
	if err != nil {
		return Session{}, err
	}
	if !stageIn(sess.Stage, sendable) {
		return sess, ErrWrongStage
	}

	phone, err := user.NormalizePhone(rawPhone)
	if err != nil {
		return sess, err
	}

	code, err := f.dispatch(ctx, phone, sessionID)
	if err != nil {
		return sess, err
	}

	return f.sessions.Update(sessionID, sendable, func(s *Session) error {
		s.PhoneNumber = phone
		s.Stage = StageOTP
		s.CodeExpiresAt = code.ExpiresAt
		return nil
	})
}

// dispatch sends a fresh code to phone and stores it under key. The resend
// slot is handed back when nothing was sent or stored.
func (f *Flow) dispatch(ctx context.Context, phone, key string) (Code, error) {
	release, wait := f.throttle.Reserve(phone)
	if release == nil {
		metrics.OTPSent.WithLabelValues("throttled").Inc()
		secs := int(math.Ceil(wait.Seconds()))
		return Code{}, apperr.New(apperr.ErrRateLimited, fmt.Sprintf("please wait %ds before requesting another code", secs))
	}

	plain, code, err := newCode(phone, f.opts.CodeTTL, f.now())
	if err != nil {
		release()
		return Code{}, err
	}
	if err := f.deps.Sender.Send(ctx, phone, plain); err != nil {
		release()
		metrics.OTPSent.WithLabelValues("failed").Inc()
		log.Printf("onboarding: failed to send code to %s: %v", phone, err)
		return Code{}, ErrDispatchFailed
	}
	metrics.OTPSent.WithLabelValues("sent").Inc()

	if err := f.deps.Codes.Put(ctx, key, code); err != nil {
		release()
		return Code{}, err
	}
	return code, nil
}

// VerifyOTP checks a code. The stored code is consumed before comparison;
// a wrong guess puts it back until the attempt limit is reached.
func (f *Flow) VerifyOTP(ctx context.Context, sessionID, plain string) (*Verified, error) {
	plain = strings.TrimSpace(plain)
	if !isSixDigits(plain) {
		return nil, ErrCodeFormat
	}

	sess, err := f.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Stage != StageOTP {
		return nil, ErrWrongStage
	}

	code, err := f.deps.Codes.Take(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if code == nil && f.codeOutstanding(sessionID) {
		// another attempt holds the code and will put it back if it was wrong
		metrics.OTPVerifications.WithLabelValues("contended").Inc()
		return nil, ErrCodeBusy
	}
	if code == nil || !f.now().Before(code.ExpiresAt) || code.Phone != sess.PhoneNumber {
		metrics.OTPVerifications.WithLabelValues("expired").Inc()
		return nil, ErrCodeExpired
	}

	if !code.Matches(plain) {
		code.Attempts++
		if code.Attempts >= f.opts.MaxAttempts {
			f.sessions.Update(sessionID, []Stage{StageOTP}, func(s *Session) error {
				s.CodeExpiresAt = time.Time{}
				return nil
			})
			metrics.OTPVerifications.WithLabelValues("locked").Inc()
			return nil, ErrTooManyAttempts
		}
		if err := f.deps.Codes.Restore(ctx, sessionID, *code); err != nil {
			log.Printf("onboarding: failed to restore code for session %s: %v", sessionID, err)
		}
		metrics.OTPVerifications.WithLabelValues("invalid").Inc()
		return nil, ErrCodeInvalid
	}

	verified, err := f.completeVerification(ctx, sessionID, sess.PhoneNumber)
	if err != nil {
		// the code was right; let the candidate retry once the failure clears
		if rerr := f.deps.Codes.Restore(ctx, sessionID, *code); rerr != nil {
			log.Printf("onboarding: failed to restore code for session %s: %v", sessionID, rerr)
		}
		return nil, err
	}
	metrics.OTPVerifications.WithLabelValues("success").Inc()
	return verified, nil
}

// codeOutstanding reports whether the session still waits on an unexpired code
func (f *Flow) codeOutstanding(sessionID string) bool {
	sess, err := f.sessions.Get(sessionID)
	if err != nil {
		return false
	}
	return sess.Stage == StageOTP && f.now().Before(sess.CodeExpiresAt)
}

func (f *Flow) completeVerification(ctx context.Context, sessionID, phone string) (*Verified, error) {
	u, err := f.deps.Users.FindOrCreateMember(ctx, phone)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := f.deps.Tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	sess, err := f.sessions.Update(sessionID, []Stage{StageOTP}, func(s *Session) error {
		if s.PhoneNumber != phone {
			return ErrCodeExpired
		}
		s.UserID = u.ID
		s.Verified = true
		s.Stage = StageOnboarding
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Verified{Session: sess, User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// Detail returns the group as shown to a verified candidate
func (f *Flow) Detail(ctx context.Context, sessionID string) (*Detail, error) {
	sess, err := f.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Stage != StageOnboarding && sess.Stage != StageJoined {
		return nil, ErrWrongStage
	}

	g, err := f.deps.Groups.GetByID(ctx, sess.GroupID)
	if err != nil {
		return nil, err
	}
	landing, err := f.landing(ctx, g)
	if err != nil {
		return nil, err
	}

	status, err := f.deps.Contributions.ContributionStatusFor(ctx, g.ID, sess.UserID)
	if err != nil {
		return nil, err
	}
	return &Detail{Landing: *landing, ContributionStatus: status}, nil
}

// Complete records the membership for a verified session
func (f *Flow) Complete(ctx context.Context, sessionID string) (Session, error) {
	sess, err := f.sessions.Get(sessionID)
	if err != nil {
		return Session{}, err
	}
	if sess.Stage != StageOnboarding {
		return sess, ErrWrongStage
	}
	if !sess.Verified || sess.UserID == "" {
		return sess, ErrNotVerified
	}

	g, err := f.deps.Groups.GetByID(ctx, sess.GroupID)
	if err != nil {
		return sess, err
	}
	_, created, err := f.deps.Groups.Join(ctx, g.ID, sess.UserID)
	if err != nil {
		return sess, err
	}

	joined, err := f.sessions.Update(sessionID, []Stage{StageOnboarding}, func(s *Session) error {
		s.Stage = StageJoined
		return nil
	})
	if err != nil {
		return joined, err
	}

	if created && g.AdminID != sess.UserID {
		f.deps.Notifier.Notify(ctx, g.AdminID, notification.TypeMemberJoined, nil)
	}
	return joined, nil
}

// Back returns to the previous step before verification
func (f *Flow) Back(_ context.Context, sessionID string) (Session, error) {
	return f.sessions.Update(sessionID, []Stage{StagePhone, StageOTP}, func(s *Session) error {
		s.Stage = back[s.Stage]
		return nil
	})
}

func (f *Flow) landing(ctx context.Context, g *group.Group) (*Landing, error) {
	projects, err := f.deps.Projects.ListByGroup(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	count, err := f.deps.Groups.CountMembers(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	return &Landing{
		Group:       g,
		MemberCount: count,
		Summary:     project.Summarize(projects, f.now()),
		Projects:    projects,
	}, nil
}

func isSixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
