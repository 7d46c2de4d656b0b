package project

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FaisalEngish/Kontrib/internal/database"
	"github.com/FaisalEngish/Kontrib/internal/ids"
)

// Repository handles project data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new project repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const projectColumns = `id, group_id, name, description, target_amount, collected_amount, deadline, created_at`

func scanProject(row interface{ Scan(...any) error }) (*Project, error) {
	p := &Project{}
	err := row.Scan(
		&p.ID,
		&p.GroupID,
		&p.Name,
		&p.Description,
		&p.TargetAmount,
		&p.CollectedAmount,
		&p.Deadline,
		&p.CreatedAt,
	)
	return p, err
}

// Create inserts a new project; collected_amount starts at zero
func (r *Repository) Create(ctx context.Context, groupID, name string, description *string, target decimal.Decimal, deadline *time.Time) (*Project, error) {
	query := `
		INSERT INTO projects (id, group_id, name, description, target_amount, deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + projectColumns

	p, err := scanProject(r.db.QueryRowContext(ctx, query, ids.New(), groupID, name, description, target, deadline))
	if err != nil {
		return nil, database.Classify(fmt.Errorf("failed to create project: %w", err))
	}
	return p, nil
}

// GetByID retrieves a project by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// ListByGroup retrieves the projects of a group, oldest first
func (r *Repository) ListByGroup(ctx context.Context, groupID string) ([]*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE group_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
