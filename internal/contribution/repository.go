package contribution

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/FaisalEngish/Kontrib/internal/database"
	"github.com/FaisalEngish/Kontrib/internal/ids"
)

// Repository handles contribution data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new contribution repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const contributionColumns = `id, group_id, project_id, contributor_id, amount, status, description,
	transaction_ref, proof_of_payment, created_at, resolved_at, resolved_by`

func scanContribution(row interface{ Scan(...any) error }) (*Contribution, error) {
	c := &Contribution{}
	err := row.Scan(
		&c.ID,
		&c.GroupID,
		&c.ProjectID,
		&c.ContributorID,
		&c.Amount,
		&c.Status,
		&c.Description,
		&c.TransactionRef,
		&c.ProofOfPayment,
		&c.CreatedAt,
		&c.ResolvedAt,
		&c.ResolvedBy,
	)
	return c, err
}

// Create inserts a pending contribution
func (r *Repository) Create(ctx context.Context, contributorID string, req *SubmitRequest) (*Contribution, error) {
	query := `
		INSERT INTO contributions (id, group_id, project_id, contributor_id, amount, status, description, transaction_ref, proof_of_payment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + contributionColumns

	c, err := scanContribution(r.db.QueryRowContext(ctx, query,
		ids.New(), req.GroupID, req.ProjectID, contributorID, req.Amount, string(StatusPending),
		req.Description, req.TransactionRef, req.ProofOfPayment,
	))
	if err != nil {
		return nil, database.Classify(fmt.Errorf("failed to create contribution: %w", err))
	}
	return c, nil
}

// GetByID retrieves a contribution by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions WHERE id = $1`

	c, err := scanContribution(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contribution: %w", err)
	}
	return c, nil
}

// Resolve moves a pending contribution to status. On confirmation the
// project's collected amount is increased in the same transaction. A nil
// contribution means the row was no longer pending and nothing changed.
func (r *Repository) Resolve(ctx context.Context, id string, status Status, actorID string, at time.Time) (*Contribution, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer database.Rollback(tx)

	query := `
		UPDATE contributions
		SET status = $2, resolved_at = $3, resolved_by = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + contributionColumns

	c, err := scanContribution(tx.QueryRowContext(ctx, query, id, string(status), at, actorID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve contribution: %w", err)
	}

	if status == StatusConfirmed && c.ProjectID != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE projects SET collected_amount = collected_amount + $2 WHERE id = $1`,
			*c.ProjectID, c.Amount,
		); err != nil {
			if database.IsOutOfRange(err) {
				return nil, ErrTotalOutOfRange
			}
			return nil, fmt.Errorf("failed to update collected amount: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit contribution: %w", err)
	}
	return c, nil
}

// ListByGroups retrieves contributions of the given groups, newest first
func (r *Repository) ListByGroups(ctx context.Context, groupIDs []string, status *Status) ([]*Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions WHERE group_id = ANY($1)`
	args := []any{pq.Array(groupIDs)}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	return r.list(ctx, query, args...)
}

// ListByContributor retrieves a member's contributions, newest first
func (r *Repository) ListByContributor(ctx context.Context, contributorID string) ([]*Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions WHERE contributor_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, contributorID)
}

// StatusesFor returns the distinct statuses of a member's contributions to a group
func (r *Repository) StatusesFor(ctx context.Context, groupID, contributorID string) ([]Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT status FROM contributions WHERE group_id = $1 AND contributor_id = $2`,
		groupID, contributorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get contribution statuses: %w", err)
	}
	defer rows.Close()

	var statuses []Status
	for rows.Next() {
		var s Status
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Contribution, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	contributions := []*Contribution{}
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}
