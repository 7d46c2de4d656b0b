package user

import (
	"strings"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
)

// defaultCountryCode is applied to numbers written in national format (0XXXXXXXXXX).
const defaultCountryCode = "234"

// ErrInvalidPhone is returned when a number cannot be normalised to E.164
var ErrInvalidPhone = apperr.New(apperr.ErrValidation, "phone number must be in international format, e.g. +2348012345678")

// NormalizePhone converts a user-entered phone number to E.164 (+<8-15 digits>).
// Spaces, dashes, dots and parentheses are ignored.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", ErrInvalidPhone
		}
	}

	s := b.String()
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "00"):
		s = s[2:]
	case strings.HasPrefix(s, "0") && len(s) == 11:
		s = defaultCountryCode + s[1:]
	}

	if len(s) < 8 || len(s) > 15 || s[0] == '0' {
		return "", ErrInvalidPhone
	}
	return "+" + s, nil
}
