package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	iss, err := NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	token, expiresAt, err := iss.Issue("user-42", "member")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := iss.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "user-42" || claims.Role != "member" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected token id")
	}
}

func TestParseRejectsForeignSecret(t *testing.T) {
	a, _ := NewIssuer("secret-a", time.Hour)
	b, _ := NewIssuer("secret-b", time.Hour)

	token, _, err := a.Issue("user-1", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	iss, _ := NewIssuer("test-secret", time.Minute)
	past := time.Now().Add(-time.Hour)
	iss.now = func() time.Time { return past }

	token, _, err := iss.Issue("user-1", "member")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	iss.now = time.Now
	if _, err := iss.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	if _, err := NewIssuer("  ", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
