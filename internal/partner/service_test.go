package partner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
	"github.com/FaisalEngish/Kontrib/internal/group"
	"github.com/FaisalEngish/Kontrib/internal/notification"
	"github.com/FaisalEngish/Kontrib/pkg/middleware"
)

var partnerCols = []string{"id", "group_id", "user_id", "created_at", "full_name", "phone_number"}

type stubGroups struct {
	group   *group.Group
	members []*group.GroupMember
}

func (s *stubGroups) GetByID(_ context.Context, id string) (*group.Group, error) {
	if s.group.ID != id {
		return nil, group.ErrGroupNotFound
	}
	return s.group, nil
}

func (s *stubGroups) GetMembers(_ context.Context, _ string) ([]*group.GroupMember, error) {
	return s.members, nil
}

func (s *stubGroups) IsMember(_ context.Context, _, userID string) (bool, error) {
	for _, m := range s.members {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type sent struct {
	userID string
	typ    notification.Type
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (n *recordingNotifier) Notify(_ context.Context, userID string, t notification.Type, _ *string) *notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sent{userID, t})
	return &notification.Notification{UserID: userID, Type: t}
}

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock, *recordingNotifier) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	groups := &stubGroups{
		group: &group.Group{ID: "g1", AdminID: "admin"},
		members: []*group.GroupMember{
			{GroupID: "g1", UserID: "admin", FullName: "Admin"},
			{GroupID: "g1", UserID: "u1", FullName: "Ada"},
			{GroupID: "g1", UserID: "u2", FullName: "Bola"},
			{GroupID: "g1", UserID: "u3", FullName: "Chi"},
		},
	}
	notifier := &recordingNotifier{}
	return NewService(NewRepository(db), groups, notifier), mock, notifier
}

func expectLockedSnapshot(mock sqlmock.Sqlmock, candidate string, isMember bool, count, existing int) {
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM groups WHERE id = \\$1 FOR UPDATE").WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("g1"))
	mock.ExpectQuery("FROM group_members").WithArgs("g1", candidate).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(isMember))
	mock.ExpectQuery("FROM accountability_partners").WithArgs("g1", candidate).
		WillReturnRows(sqlmock.NewRows([]string{"count", "existing"}).AddRow(count, existing))
}

func TestAddPartnerInsertsAndNotifies(t *testing.T) {
	svc, mock, notifier := newMockService(t)
	now := time.Now()

	expectLockedSnapshot(mock, "u1", true, 0, 0)
	mock.ExpectQuery("INSERT INTO accountability_partners").WithArgs(sqlmock.AnyArg(), "g1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "user_id", "created_at"}).AddRow("p1", "g1", "u1", now))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM accountability_partners ap").WithArgs("g1").
		WillReturnRows(sqlmock.NewRows(partnerCols).AddRow("p1", "g1", "u1", now, "Ada", "+2348000000001"))

	partners, err := svc.AddPartner(context.Background(), "g1", "u1", "admin")
	if err != nil {
		t.Fatalf("AddPartner: %v", err)
	}
	if len(partners) != 1 || partners[0].UserID != "u1" {
		t.Fatalf("unexpected partners %+v", partners)
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != (sent{"u1", notification.TypePartnerAssigned}) {
		t.Fatalf("unexpected notifications %+v", notifier.sent)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddPartnerRejectsThirdPartner(t *testing.T) {
	svc, mock, notifier := newMockService(t)

	expectLockedSnapshot(mock, "u3", true, 2, 0)
	mock.ExpectRollback()

	_, err := svc.AddPartner(context.Background(), "g1", "u3", "admin")
	if !errors.Is(err, ErrPartnerLimit) || !errors.Is(err, apperr.ErrPrecondition) {
		t.Fatalf("expected partner limit, got %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("no notification expected, got %+v", notifier.sent)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddPartnerRejectsNonMember(t *testing.T) {
	svc, mock, _ := newMockService(t)

	expectLockedSnapshot(mock, "outsider", false, 0, 0)
	mock.ExpectRollback()

	if _, err := svc.AddPartner(context.Background(), "g1", "outsider", "admin"); !errors.Is(err, ErrNotGroupMember) {
		t.Fatalf("expected ErrNotGroupMember, got %v", err)
	}
}

func TestAddPartnerRejectsDuplicate(t *testing.T) {
	svc, mock, _ := newMockService(t)

	expectLockedSnapshot(mock, "u1", true, 1, 1)
	mock.ExpectRollback()

	if _, err := svc.AddPartner(context.Background(), "g1", "u1", "admin"); !errors.Is(err, ErrAlreadyPartner) {
		t.Fatalf("expected ErrAlreadyPartner, got %v", err)
	}
}

func TestAddPartnerAuthorization(t *testing.T) {
	svc, _, _ := newMockService(t)

	if _, err := svc.AddPartner(context.Background(), "g1", "u2", "u1"); !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	if _, err := svc.AddPartner(context.Background(), "g1", "admin", "admin"); !errors.Is(err, ErrAdminNotAllowed) {
		t.Fatalf("expected ErrAdminNotAllowed, got %v", err)
	}
	if _, err := svc.AddPartner(context.Background(), "missing", "u2", "admin"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckAdd(t *testing.T) {
	cases := []struct {
		name      string
		member    bool
		partner   bool
		count     int
		wantError error
	}{
		{"first partner", true, false, 0, nil},
		{"second partner", true, false, 1, nil},
		{"third partner", true, false, 2, ErrPartnerLimit},
		{"non-member", false, false, 0, ErrNotGroupMember},
		{"duplicate", true, true, 1, ErrAlreadyPartner},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := checkAdd(tc.member, tc.partner, tc.count); err != tc.wantError {
				t.Fatalf("checkAdd = %v, want %v", err, tc.wantError)
			}
		})
	}
}

func TestRemovePartner(t *testing.T) {
	svc, mock, notifier := newMockService(t)

	mock.ExpectExec("DELETE FROM accountability_partners").WithArgs("g1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := svc.RemovePartner(context.Background(), "g1", "u1", "admin"); err != nil {
		t.Fatalf("RemovePartner: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].typ != notification.TypePartnerRemoved {
		t.Fatalf("unexpected notifications %+v", notifier.sent)
	}

	mock.ExpectExec("DELETE FROM accountability_partners").WithArgs("g1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := svc.RemovePartner(context.Background(), "g1", "u2", "admin"); !errors.Is(err, ErrPartnerNotFound) {
		t.Fatalf("expected ErrPartnerNotFound, got %v", err)
	}
}

func TestListEligibleMembersExcludesAdminAndPartners(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery("FROM accountability_partners ap").WithArgs("g1").
		WillReturnRows(sqlmock.NewRows(partnerCols).AddRow("p1", "g1", "u1", time.Now(), "Ada", "+2348000000001"))

	eligible, err := svc.ListEligibleMembers(context.Background(), "g1", "admin")
	if err != nil {
		t.Fatalf("ListEligibleMembers: %v", err)
	}
	if len(eligible) != 2 || eligible[0].UserID != "u2" || eligible[1].UserID != "u3" {
		t.Fatalf("unexpected eligible members %+v", eligible)
	}
}

func TestAddHandlerMapsLimitToConflict(t *testing.T) {
	svc, mock, _ := newMockService(t)
	expectLockedSnapshot(mock, "u3", true, 2, 0)
	mock.ExpectRollback()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), "admin")))
		})
	})
	NewHandler(svc).GroupRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/g1/accountability-partners", strings.NewReader(`{"user_id":"u3"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "PRECONDITION_FAILED") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
