// Package apperr defines the error kinds shared by every feature package.
// Feature errors wrap exactly one kind so handlers can map them with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds
var (
	ErrValidation    = errors.New("validation failed")
	ErrAuthorization = errors.New("not authorized")
	ErrPrecondition  = errors.New("precondition failed")
	ErrInvalidState  = errors.New("invalid state transition")
	ErrNotFound      = errors.New("not found")
	ErrExpiredOTP    = errors.New("otp expired")
	ErrInvalidOTP    = errors.New("invalid otp")
	ErrRateLimited   = errors.New("rate limited")
	ErrUnavailable   = errors.New("temporarily unavailable")
)

var kinds = []error{
	ErrValidation,
	ErrAuthorization,
	ErrPrecondition,
	ErrInvalidState,
	ErrNotFound,
	ErrExpiredOTP,
	ErrInvalidOTP,
	ErrRateLimited,
	ErrUnavailable,
}

// New returns a sentinel error of the given kind with its own message.
// errors.Is matches both the returned error and kind.
func New(kind error, message string) error {
	return &kindError{kind: kind, msg: message}
}

// Validation wraps a formatted message as a validation error.
func Validation(format string, args ...any) error {
	return New(ErrValidation, fmt.Sprintf(format, args...))
}

// KindOf returns the kind wrapped by err, or nil for unclassified errors.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }
