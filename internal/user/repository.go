package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FaisalEngish/Kontrib/internal/database"
	"github.com/FaisalEngish/Kontrib/internal/ids"
)

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, phone, fullName string, role Role) (*User, error) {
	query := `
		INSERT INTO users (id, role, phone_number, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, role, phone_number, full_name, created_at
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, ids.New(), role, phone, fullName).Scan(
		&user.ID,
		&user.Role,
		&user.PhoneNumber,
		&user.FullName,
		&user.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrPhoneAlreadyInUse
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, role, phone_number, full_name, created_at
		FROM users
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetByPhone retrieves a user by their normalised phone number
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*User, error) {
	query := `
		SELECT id, role, phone_number, full_name, created_at
		FROM users
		WHERE phone_number = $1
	`
	return r.getOne(ctx, query, phone)
}

func (r *Repository) getOne(ctx context.Context, query string, arg string) (*User, error) {
	user := &User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Role,
		&user.PhoneNumber,
		&user.FullName,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
