package onboarding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
	"github.com/FaisalEngish/Kontrib/internal/contribution"
	"github.com/FaisalEngish/Kontrib/internal/group"
	"github.com/FaisalEngish/Kontrib/internal/notification"
	"github.com/FaisalEngish/Kontrib/internal/project"
	"github.com/FaisalEngish/Kontrib/internal/user"
)

type fakeGroups struct {
	mu      sync.Mutex
	group   *group.Group
	members map[string]bool
}

func (f *fakeGroups) GetByRegistrationToken(_ context.Context, token string) (*group.Group, error) {
	if token != f.group.RegistrationToken {
		return nil, group.ErrGroupNotFound
	}
	return f.group, nil
}

func (f *fakeGroups) GetByID(_ context.Context, id string) (*group.Group, error) {
	if id != f.group.ID {
		return nil, group.ErrGroupNotFound
	}
	return f.group, nil
}

func (f *fakeGroups) CountMembers(_ context.Context, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.members), nil
}

func (f *fakeGroups) Join(_ context.Context, groupID, userID string) (*group.GroupMember, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.members[userID] {
		return &group.GroupMember{GroupID: groupID, UserID: userID}, false, nil
	}
	if !f.group.AcceptingMembers {
		return nil, false, group.ErrNotAcceptingMembers
	}
	f.members[userID] = true
	return &group.GroupMember{GroupID: groupID, UserID: userID}, true, nil
}

type fakeProjects []*project.Project

func (f fakeProjects) ListByGroup(_ context.Context, _ string) ([]*project.Project, error) {
	return f, nil
}

type fakeUsers struct {
	mu        sync.Mutex
	byPhone   map[string]*user.User
	lookupErr error
}

func (f *fakeUsers) FindOrCreateMember(_ context.Context, phone string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byPhone[phone]; ok {
		return u, nil
	}
	u := &user.User{ID: "user-" + phone, Role: user.RoleMember, PhoneNumber: phone}
	f.byPhone[phone] = u
	return u, nil
}

func (f *fakeUsers) GetByPhone(_ context.Context, phone string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if u, ok := f.byPhone[phone]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID, role string) (string, time.Time, error) {
	return "token-for-" + userID, time.Now().Add(time.Hour), nil
}

type fakeStatus struct{}

func (fakeStatus) ContributionStatusFor(_ context.Context, _, _ string) (contribution.MemberStatus, error) {
	return contribution.MemberNotPaid, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification.Type
	to   []string
}

func (n *recordingNotifier) Notify(_ context.Context, userID string, t notification.Type, _ *string) *notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, t)
	n.to = append(n.to, userID)
	return nil
}

type fakeSender struct {
	mu   sync.Mutex
	last map[string]string
	err  error
}

func (s *fakeSender) Send(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.last[phone] = code
	return nil
}

func (s *fakeSender) code(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last[phone]
}

const phone = "+2348012345678"

type fixture struct {
	flow     *Flow
	groups   *fakeGroups
	users    *fakeUsers
	sender   *fakeSender
	notifier *recordingNotifier
	codes    *MemoryCodeStore
	clock    time.Time
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	fx := &fixture{
		groups: &fakeGroups{
			group: &group.Group{
				ID:                "g1",
				Name:              "Family Savings",
				AdminID:           "admin",
				RegistrationToken: "family-savings-1a2b3c4d",
				AcceptingMembers:  true,
			},
			members: map[string]bool{"admin": true},
		},
		users:    &fakeUsers{byPhone: map[string]*user.User{}},
		sender:   &fakeSender{last: map[string]string{}},
		notifier: &recordingNotifier{},
		codes:    NewMemoryCodeStore(),
		clock:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if opts.CodeTTL == 0 {
		opts.CodeTTL = 5 * time.Minute
	}
	if opts.ResendInterval == 0 {
		opts.ResendInterval = time.Minute
	}
	fx.flow = NewFlow(Deps{
		Groups: fx.groups,
		Projects: fakeProjects{
			{ID: "p1", GroupID: "g1", TargetAmount: decimal.NewFromInt(100000), CollectedAmount: decimal.NewFromInt(40000), Deadline: &deadline},
		},
		Users:         fx.users,
		Lookup:        fx.users,
		Tokens:        fakeTokens{},
		Contributions: fakeStatus{},
		Notifier:      fx.notifier,
		Sender:        fx.sender,
		Codes:         fx.codes,
	}, opts)
	fx.flow.now = func() time.Time { return fx.clock }
	fx.flow.throttle.now = func() time.Time { return fx.clock }
	return fx
}

func (fx *fixture) atOTP(t *testing.T) Session {
	t.Helper()
	ctx := context.Background()
	sess, _, err := fx.flow.Start(ctx, "family-savings-1a2b3c4d")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := fx.flow.Join(ctx, sess.ID); err != nil {
		t.Fatalf("Join: %v", err)
	}
	sess, err = fx.flow.SendOTP(ctx, sess.ID, "0801 234 5678")
	if err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	if sess.Stage != StageOTP || sess.PhoneNumber != phone {
		t.Fatalf("unexpected session after SendOTP %+v", sess)
	}
	return sess
}

func wrongCode(right string) string {
	if right == "000000" {
		return "111111"
	}
	return "000000"
}

func stageOf(t *testing.T, fx *fixture, id string) Stage {
	t.Helper()
	sess, err := fx.flow.Session(id)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	return sess.Stage
}

func TestJoinScenarioWithWrongThenRightCode(t *testing.T) {
	fx := newFixture(t, Options{})
	ctx := context.Background()

	sess, landing, err := fx.flow.Start(ctx, "family-savings-1a2b3c4d")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if sess.Stage != StageLanding {
		t.Fatalf("stage = %s", sess.Stage)
	}
	if !landing.Summary.TotalTarget.Equal(decimal.NewFromInt(100000)) || landing.MemberCount != 1 {
		t.Fatalf("unexpected landing %+v", landing)
	}

	if sess, err = fx.flow.Join(ctx, sess.ID); err != nil || sess.Stage != StagePhone {
		t.Fatalf("Join: %v %+v", err, sess)
	}
	if sess, err = fx.flow.SendOTP(ctx, sess.ID, phone); err != nil || sess.Stage != StageOTP {
		t.Fatalf("SendOTP: %v %+v", err, sess)
	}

	code := fx.sender.code(phone)
	if _, err := fx.flow.VerifyOTP(ctx, sess.ID, wrongCode(code)); !errors.Is(err, apperr.ErrInvalidOTP) {
		t.Fatalf("expected invalid otp, got %v", err)
	}
	if got := stageOf(t, fx, sess.ID); got != StageOTP {
		t.Fatalf("stage after wrong code = %s", got)
	}

	v, err := fx.flow.VerifyOTP(ctx, sess.ID, code)
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if v.Session.Stage != StageOnboarding || !v.Session.Verified || v.Token == "" {
		t.Fatalf("unexpected verification %+v", v)
	}
	if v.User.Role != user.RoleMember {
		t.Fatalf("role = %s", v.User.Role)
	}

	detail, err := fx.flow.Detail(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if detail.ContributionStatus != contribution.MemberNotPaid {
		t.Fatalf("contribution status = %s", detail.ContributionStatus)
	}

	joined, err := fx.flow.Complete(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if joined.Stage != StageJoined || !fx.groups.members[v.User.ID] {
		t.Fatalf("expected membership, got %+v", joined)
	}
	if len(fx.notifier.sent) != 1 || fx.notifier.sent[0] != notification.TypeMemberJoined || fx.notifier.to[0] != "admin" {
		t.Fatalf("unexpected notifications %v %v", fx.notifier.sent, fx.notifier.to)
	}
}

func TestOutOfOrderCallsKeepStage(t *testing.T) {
	fx := newFixture(t, Options{})
	ctx := context.Background()

	sess, _, err := fx.flow.Start(ctx, "family-savings-1a2b3c4d")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := fx.flow.SendOTP(ctx, sess.ID, phone); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("SendOTP at landing: %v", err)
	}
	if _, err := fx.flow.VerifyOTP(ctx, sess.ID, "123456"); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("VerifyOTP at landing: %v", err)
	}
	if _, err := fx.flow.Complete(ctx, sess.ID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("Complete at landing: %v", err)
	}
	if _, err := fx.flow.Detail(ctx, sess.ID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("Detail at landing: %v", err)
	}
	if got := stageOf(t, fx, sess.ID); got != StageLanding {
		t.Fatalf("stage = %s", got)
	}
	if len(fx.groups.members) != 1 {
		t.Fatalf("no membership may be created without verification")
	}
}

func TestExpiredCodeStaysAtOTP(t *testing.T) {
	fx := newFixture(t, Options{})
	sess := fx.atOTP(t)
	code := fx.sender.code(phone)

	fx.clock = fx.clock.Add(6 * time.Minute)

	if _, err := fx.flow.VerifyOTP(context.Background(), sess.ID, code); !errors.Is(err, apperr.ErrExpiredOTP) {
		t.Fatalf("expected expired otp, got %v", err)
	}
	if got := stageOf(t, fx, sess.ID); got != StageOTP {
		t.Fatalf("stage = %s", got)
	}
}

func TestCodeIsConsumedOnce(t *testing.T) {
	fx := newFixture(t, Options{})
	sess := fx.atOTP(t)
	code := fx.sender.code(phone)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.flow.VerifyOTP(context.Background(), sess.ID, code)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			if !errors.Is(err, apperr.ErrExpiredOTP) && !errors.Is(err, apperr.ErrInvalidState) && !errors.Is(err, ErrCodeBusy) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("successes = %d, want 1", successes)
	}
}

func TestAttemptLimitBurnsCode(t *testing.T) {
	fx := newFixture(t, Options{MaxAttempts: 2})
	sess := fx.atOTP(t)
	code := fx.sender.code(phone)
	ctx := context.Background()

	if _, err := fx.flow.VerifyOTP(ctx, sess.ID, wrongCode(code)); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("first wrong code: %v", err)
	}
	if _, err := fx.flow.VerifyOTP(ctx, sess.ID, wrongCode(code)); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("second wrong code: %v", err)
	}
	if _, err := fx.flow.VerifyOTP(ctx, sess.ID, code); !errors.Is(err, apperr.ErrExpiredOTP) {
		t.Fatalf("right code after lockout: %v", err)
	}
}

func TestResendIsThrottled(t *testing.T) {
	fx := newFixture(t, Options{})
	sess := fx.atOTP(t)
	ctx := context.Background()

	if _, err := fx.flow.SendOTP(ctx, sess.ID, phone); !errors.Is(err, apperr.ErrRateLimited) {
		t.Fatalf("expected rate limit, got %v", err)
	}

	fx.clock = fx.clock.Add(61 * time.Second)
	if _, err := fx.flow.SendOTP(ctx, sess.ID, phone); err != nil {
		t.Fatalf("resend after interval: %v", err)
	}
	if got := stageOf(t, fx, sess.ID); got != StageOTP {
		t.Fatalf("stage = %s", got)
	}
}

func TestDispatchFailureKeepsStage(t *testing.T) {
	fx := newFixture(t, Options{})
	ctx := context.Background()
	fx.sender.err = errors.New("gateway down")

	sess, _, _ := fx.flow.Start(ctx, "family-savings-1a2b3c4d")
	if _, err := fx.flow.Join(ctx, sess.ID); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := fx.flow.SendOTP(ctx, sess.ID, phone); !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if got := stageOf(t, fx, sess.ID); got != StagePhone {
		t.Fatalf("stage = %s", got)
	}
	if c, _ := fx.codes.Take(ctx, sess.ID); c != nil {
		t.Fatalf("no code should be stored after a failed dispatch")
	}

	// the failed send must not hold the resend slot
	fx.sender.err = nil
	sess, err := fx.flow.SendOTP(ctx, sess.ID, phone)
	if err != nil {
		t.Fatalf("retry after the gateway recovered: %v", err)
	}
	if sess.Stage != StageOTP || fx.sender.code(phone) == "" {
		t.Fatalf("expected a code to go out on retry, session %+v", sess)
	}
}

func TestVerifyWhileCodeIsHeldElsewhere(t *testing.T) {
	fx := newFixture(t, Options{})
	ctx := context.Background()
	sess := fx.atOTP(t)
	code := fx.sender.code(phone)

	held, err := fx.codes.Take(ctx, sess.ID)
	if err != nil || held == nil {
		t.Fatalf("Take: %v %v", held, err)
	}
	_, err = fx.flow.VerifyOTP(ctx, sess.ID, code)
	if !errors.Is(err, ErrCodeBusy) || errors.Is(err, apperr.ErrExpiredOTP) {
		t.Fatalf("expected busy code, got %v", err)
	}

	if err := fx.codes.Restore(ctx, sess.ID, *held); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if _, err := fx.flow.VerifyOTP(ctx, sess.ID, code); err != nil {
		t.Fatalf("VerifyOTP after the code came back: %v", err)
	}
}

func TestLockedOutCodeReportsExpired(t *testing.T) {
	fx := newFixture(t, Options{MaxAttempts: 1})
	ctx := context.Background()
	sess := fx.atOTP(t)
	code := fx.sender.code(phone)

	if _, err := fx.flow.VerifyOTP(ctx, sess.ID, wrongCode(code)); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected lock out, got %v", err)
	}
	if _, err := fx.flow.VerifyOTP(ctx, sess.ID, code); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected a burned code to read as expired, got %v", err)
	}
}

func TestInvalidPhone(t *testing.T) {
	fx := newFixture(t, Options{})
	ctx := context.Background()

	sess, _, _ := fx.flow.Start(ctx, "family-savings-1a2b3c4d")
	fx.flow.Join(ctx, sess.ID)
	if _, err := fx.flow.SendOTP(ctx, sess.ID, "not-a-phone"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := stageOf(t, fx, sess.ID); got != StagePhone {
		t.Fatalf("stage = %s", got)
	}
}

func TestBack(t *testing.T) {
	fx := newFixture(t, Options{})
	ctx := context.Background()
	sess := fx.atOTP(t)

	s, err := fx.flow.Back(ctx, sess.ID)
	if err != nil || s.Stage != StagePhone {
		t.Fatalf("Back from otp: %v %+v", err, s)
	}
	s, err = fx.flow.Back(ctx, sess.ID)
	if err != nil || s.Stage != StageLanding {
		t.Fatalf("Back from phone: %v %+v", err, s)
	}
	if _, err := fx.flow.Back(ctx, sess.ID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("Back from landing: %v", err)
	}
}

func TestBackNotAllowedAfterVerification(t *testing.T) {
	fx := newFixture(t, Options{})
	ctx := context.Background()
	sess := fx.atOTP(t)

	if _, err := fx.flow.VerifyOTP(ctx, sess.ID, fx.sender.code(phone)); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if _, err := fx.flow.Back(ctx, sess.ID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestCompleteWhenGroupClosed(t *testing.T) {
	fx := newFixture(t, Options{})
	ctx := context.Background()
	sess := fx.atOTP(t)

	if _, err := fx.flow.VerifyOTP(ctx, sess.ID, fx.sender.code(phone)); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	fx.groups.group.AcceptingMembers = false

	if _, err := fx.flow.Complete(ctx, sess.ID); !errors.Is(err, apperr.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if got := stageOf(t, fx, sess.ID); got != StageOnboarding {
		t.Fatalf("stage = %s", got)
	}
}

func TestStartUnknownToken(t *testing.T) {
	fx := newFixture(t, Options{})

	if _, _, err := fx.flow.Start(context.Background(), "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
