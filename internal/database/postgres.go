package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
)

// MaxAmount is the largest value a NUMERIC(14,2) money column holds
var MaxAmount = decimal.RequireFromString("999999999999.99")

// Errors for writes Postgres refuses on data grounds. Retrying them cannot help.
var (
	ErrValueOutOfRange = apperr.New(apperr.ErrValidation, "value exceeds the supported range")
	ErrCheckViolation  = apperr.New(apperr.ErrValidation, "value violates a data constraint")
)

// NewPostgresConnection opens a pooled connection to Postgres and verifies it
func NewPostgresConnection(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// IsOutOfRange reports whether err is a Postgres numeric overflow
func IsOutOfRange(err error) bool {
	return pqCode(err) == "22003"
}

// Classify turns data errors Postgres raises on a write into validation
// errors. Anything else is returned unchanged.
func Classify(err error) error {
	switch pqCode(err) {
	case "22003":
		return ErrValueOutOfRange
	case "23514":
		return ErrCheckViolation
	}
	return err
}

// IsUniqueViolation reports whether err is a Postgres unique constraint failure
func IsUniqueViolation(err error) bool {
	return pqCode(err) == "23505"
}

// Rollback is deferred after BeginTx; it is a no-op once the tx is committed
func Rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}
