package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FaisalEngish/Kontrib/internal/database"
	"github.com/FaisalEngish/Kontrib/internal/ids"
)

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const groupColumns = `id, name, description, admin_id, registration_token, accepting_members, created_at`

func scanGroup(row interface{ Scan(...any) error }) (*Group, error) {
	group := &Group{}
	err := row.Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.AdminID,
		&group.RegistrationToken,
		&group.AcceptingMembers,
		&group.CreatedAt,
	)
	return group, err
}

// Create inserts a new group and its admin membership in one transaction
func (r *Repository) Create(ctx context.Context, adminID, token string, req *CreateGroupRequest) (*Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer database.Rollback(tx)

	query := `
		INSERT INTO groups (id, name, description, admin_id, registration_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + groupColumns

	group, err := scanGroup(tx.QueryRowContext(ctx, query, ids.New(), req.Name, req.Description, adminID, token))
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`,
		group.ID, adminID,
	); err != nil {
		return nil, fmt.Errorf("failed to add admin membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit group: %w", err)
	}
	return group, nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByRegistrationToken retrieves a group by its join link token
func (r *Repository) GetByRegistrationToken(ctx context.Context, token string) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE registration_token = $1`
	return r.getOne(ctx, query, token)
}

func (r *Repository) getOne(ctx context.Context, query, arg string) (*Group, error) {
	group, err := scanGroup(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListByUserID retrieves all groups the user belongs to
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]*Group, error) {
	query := `
		SELECT g.id, g.name, g.description, g.admin_id, g.registration_token, g.accepting_members, g.created_at
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

// ListIDsByAdmin returns the IDs of every group the user administers
func (r *Repository) ListIDsByAdmin(ctx context.Context, adminID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM groups WHERE admin_id = $1 ORDER BY created_at`, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list administered groups: %w", err)
	}
	defer rows.Close()

	var groupIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		groupIDs = append(groupIDs, id)
	}
	return groupIDs, rows.Err()
}

// Update applies the fields set in req; nil fields keep their value
func (r *Repository) Update(ctx context.Context, id string, req *UpdateGroupRequest) (*Group, error) {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			accepting_members = COALESCE($4, accepting_members)
		WHERE id = $1
		RETURNING ` + groupColumns

	group, err := scanGroup(r.db.QueryRowContext(ctx, query, id, req.Name, req.Description, req.AcceptingMembers))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return group, nil
}

// AddMember records a membership if it does not exist yet. The insert is
// conditional on the group still accepting members; created is false when
// the user was already a member.
func (r *Repository) AddMember(ctx context.Context, groupID, userID string) (member *GroupMember, created bool, err error) {
	query := `
		INSERT INTO group_members (group_id, user_id)
		SELECT id, $2 FROM groups WHERE id = $1 AND accepting_members
		ON CONFLICT (group_id, user_id) DO NOTHING
		RETURNING group_id, user_id, joined_at
	`

	member = &GroupMember{}
	err = r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&member.GroupID, &member.UserID, &member.JoinedAt)
	if err == nil {
		return member, true, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("failed to add member: %w", err)
	}

	existing, err := r.GetMember(ctx, groupID, userID)
	return existing, false, err
}

// GetMembers retrieves all members of a group
func (r *Repository) GetMembers(ctx context.Context, groupID string) ([]*GroupMember, error) {
	query := `
		SELECT gm.group_id, gm.user_id, gm.joined_at, u.full_name, u.phone_number
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at, gm.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		member := &GroupMember{}
		if err := rows.Scan(
			&member.GroupID,
			&member.UserID,
			&member.JoinedAt,
			&member.FullName,
			&member.PhoneNumber,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// GetMember retrieves a specific member from a group
func (r *Repository) GetMember(ctx context.Context, groupID, userID string) (*GroupMember, error) {
	query := `
		SELECT gm.group_id, gm.user_id, gm.joined_at, u.full_name, u.phone_number
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1 AND gm.user_id = $2
	`

	member := &GroupMember{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(
		&member.GroupID,
		&member.UserID,
		&member.JoinedAt,
		&member.FullName,
		&member.PhoneNumber,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// CountMembers returns the number of members in a group
func (r *Repository) CountMembers(ctx context.Context, groupID string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM group_members WHERE group_id = $1`, groupID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}
