package user

import (
	"errors"
	"testing"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+2348012345678":      "+2348012345678",
		"+234 801 234 5678":   "+2348012345678",
		"08012345678":         "+2348012345678",
		"002348012345678":     "+2348012345678",
		"+1 (415) 555-0100":   "+14155550100",
		"  +44.20.7946.0958 ": "+442079460958",
	}
	for in, want := range cases {
		got, err := NormalizePhone(in)
		if err != nil {
			t.Fatalf("NormalizePhone(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("NormalizePhone(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestNormalizePhoneRejects(t *testing.T) {
	for _, in := range []string{"", "12345", "+0801234567", "080-CALL-NOW", "+1234567890123456", "23+48012345678"} {
		_, err := NormalizePhone(in)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("NormalizePhone(%q): expected validation error, got %v", in, err)
		}
	}
}
