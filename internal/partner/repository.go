package partner

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FaisalEngish/Kontrib/internal/database"
	"github.com/FaisalEngish/Kontrib/internal/group"
	"github.com/FaisalEngish/Kontrib/internal/ids"
)

// Repository handles accountability partner persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new partner repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// checkAdd applies the assignment rules to a locked snapshot of the group
func checkAdd(isMember, isPartner bool, partnerCount int) error {
	switch {
	case !isMember:
		return ErrNotGroupMember
	case isPartner:
		return ErrAlreadyPartner
	case partnerCount >= MaxPerGroup:
		return ErrPartnerLimit
	}
	return nil
}

// Add assigns userID as a partner of groupID. The group row is locked for
// the duration of the transaction so concurrent assignments to the same
// group are serialized and the rules are evaluated against committed state.
func (r *Repository) Add(ctx context.Context, groupID, userID string) (*Partner, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer database.Rollback(tx)

	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM groups WHERE id = $1 FOR UPDATE`, groupID).Scan(&locked)
	if err == sql.ErrNoRows {
		return nil, group.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock group: %w", err)
	}

	var isMember bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID,
	).Scan(&isMember); err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	var count, existing int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE user_id = $2)
		FROM accountability_partners
		WHERE group_id = $1
	`, groupID, userID).Scan(&count, &existing); err != nil {
		return nil, fmt.Errorf("failed to count partners: %w", err)
	}

	if err := checkAdd(isMember, existing > 0, count); err != nil {
		return nil, err
	}

	p := &Partner{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO accountability_partners (id, group_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, group_id, user_id, created_at
	`, ids.New(), groupID, userID).Scan(&p.ID, &p.GroupID, &p.UserID, &p.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyPartner
		}
		return nil, fmt.Errorf("failed to add partner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit partner: %w", err)
	}
	return p, nil
}

// Remove deletes the assignment; removed is false when there was none
func (r *Repository) Remove(ctx context.Context, groupID, userID string) (removed bool, err error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accountability_partners WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove partner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to remove partner: %w", err)
	}
	return n > 0, nil
}

// ListByGroup retrieves the partners of a group in assignment order
func (r *Repository) ListByGroup(ctx context.Context, groupID string) ([]*Partner, error) {
	query := `
		SELECT ap.id, ap.group_id, ap.user_id, ap.created_at, u.full_name, u.phone_number
		FROM accountability_partners ap
		JOIN users u ON u.id = ap.user_id
		WHERE ap.group_id = $1
		ORDER BY ap.created_at, ap.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	partners := []*Partner{}
	for rows.Next() {
		p := &Partner{}
		if err := rows.Scan(&p.ID, &p.GroupID, &p.UserID, &p.CreatedAt, &p.FullName, &p.PhoneNumber); err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

// Exists reports whether userID is a partner of groupID
func (r *Repository) Exists(ctx context.Context, groupID, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accountability_partners WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check partner: %w", err)
	}
	return ok, nil
}
