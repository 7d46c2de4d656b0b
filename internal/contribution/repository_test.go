package contribution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
	"github.com/FaisalEngish/Kontrib/internal/database"
)

var contributionCols = []string{
	"id", "group_id", "project_id", "contributor_id", "amount", "status", "description",
	"transaction_ref", "proof_of_payment", "created_at", "resolved_at", "resolved_by",
}

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestResolveConfirmIncrementsProjectInSameTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE contributions\s+SET status = \$2, resolved_at = \$3, resolved_by = \$4\s+WHERE id = \$1 AND status = 'pending'`).
		WithArgs("c1", "confirmed", sqlmock.AnyArg(), "admin").
		WillReturnRows(sqlmock.NewRows(contributionCols).
			AddRow("c1", "g1", "p1", "ada", "40000.00", "confirmed", nil, nil, nil, now, now, "admin"))
	mock.ExpectExec(`UPDATE projects SET collected_amount = collected_amount \+ \$2 WHERE id = \$1`).
		WithArgs("p1", "40000").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, err := repo.Resolve(context.Background(), "c1", StatusConfirmed, "admin", now)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c == nil || c.Status != StatusConfirmed {
		t.Fatalf("unexpected contribution %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestResolveRejectDoesNotTouchProjects(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE contributions").
		WithArgs("c1", "rejected", sqlmock.AnyArg(), "admin").
		WillReturnRows(sqlmock.NewRows(contributionCols).
			AddRow("c1", "g1", "p1", "ada", "40000.00", "rejected", nil, nil, nil, now, now, "admin"))
	mock.ExpectCommit()

	if _, err := repo.Resolve(context.Background(), "c1", StatusRejected, "admin", now); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestResolveAlreadyResolvedRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE contributions").
		WithArgs("c1", "confirmed", sqlmock.AnyArg(), "admin").
		WillReturnRows(sqlmock.NewRows(contributionCols))
	mock.ExpectRollback()

	c, err := repo.Resolve(context.Background(), "c1", StatusConfirmed, "admin", time.Now())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil for non-pending row, got %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListByGroupsFiltersStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE group_id = ANY\(\$1\) AND status = \$2 ORDER BY created_at DESC, id DESC`).
		WithArgs(sqlmock.AnyArg(), "pending").
		WillReturnRows(sqlmock.NewRows(contributionCols).
			AddRow("c2", "g2", nil, "bola", "70000.00", "pending", nil, nil, nil, time.Now(), nil, nil))

	pending := StatusPending
	list, err := repo.ListByGroups(context.Background(), []string{"g1", "g2"}, &pending)
	if err != nil {
		t.Fatalf("ListByGroups: %v", err)
	}
	if len(list) != 1 || list[0].ProjectID != nil {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestResolveProjectOverflowRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE contributions").
		WithArgs("c1", "confirmed", sqlmock.AnyArg(), "admin").
		WillReturnRows(sqlmock.NewRows(contributionCols).
			AddRow("c1", "g1", "p1", "ada", "5000.00", "confirmed", nil, nil, nil, now, now, "admin"))
	mock.ExpectExec("UPDATE projects").
		WithArgs("p1", "5000").
		WillReturnError(&pq.Error{Code: "22003"})
	mock.ExpectRollback()

	if _, err := repo.Resolve(context.Background(), "c1", StatusConfirmed, "admin", now); !errors.Is(err, ErrTotalOutOfRange) {
		t.Fatalf("expected total out of range, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateNumericOverflowIsValidation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO contributions").
		WillReturnError(&pq.Error{Code: "22003"})

	_, err := repo.Create(context.Background(), "ada", &SubmitRequest{GroupID: "g1", Amount: decimal.NewFromInt(10)})
	if !errors.Is(err, database.ErrValueOutOfRange) || !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
