package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
	"github.com/FaisalEngish/Kontrib/internal/user"
)

func TestSignInRegisteredUser(t *testing.T) {
	fx := newFixture(t, Options{MaxAttempts: 3})
	fx.users.byPhone[phone] = &user.User{ID: "admin", Role: user.RoleAdmin, PhoneNumber: phone}
	ctx := context.Background()

	if err := fx.flow.SendSignInCode(ctx, "08012345678"); err != nil {
		t.Fatalf("SendSignInCode: %v", err)
	}
	code := fx.sender.code(phone)
	if code == "" {
		t.Fatal("expected a code to be sent")
	}

	if _, err := fx.flow.SignIn(ctx, phone, wrongCode(code)); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("expected invalid code, got %v", err)
	}
	s, err := fx.flow.SignIn(ctx, phone, code)
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if s.User.ID != "admin" || s.Token != "token-for-admin" {
		t.Fatalf("unexpected sign-in result %+v", s)
	}

	if _, err := fx.flow.SignIn(ctx, phone, code); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected a used code to be rejected, got %v", err)
	}
}

func TestSignInUnknownNumberSendsNothing(t *testing.T) {
	fx := newFixture(t, Options{MaxAttempts: 3})
	ctx := context.Background()

	if err := fx.flow.SendSignInCode(ctx, phone); err != nil {
		t.Fatalf("expected silent success, got %v", err)
	}
	if fx.sender.code(phone) != "" {
		t.Fatal("no code should be sent to an unknown number")
	}
	if _, err := fx.flow.SignIn(ctx, phone, "123456"); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected no code on record, got %v", err)
	}
}

func TestSignInCodeIsThrottled(t *testing.T) {
	fx := newFixture(t, Options{MaxAttempts: 3})
	fx.users.byPhone[phone] = &user.User{ID: "m1", Role: user.RoleMember, PhoneNumber: phone}
	ctx := context.Background()

	if err := fx.flow.SendSignInCode(ctx, phone); err != nil {
		t.Fatalf("SendSignInCode: %v", err)
	}
	if err := fx.flow.SendSignInCode(ctx, phone); !errors.Is(err, apperr.ErrRateLimited) {
		t.Fatalf("expected rate limit, got %v", err)
	}
	fx.clock = fx.clock.Add(61 * time.Second)
	if err := fx.flow.SendSignInCode(ctx, phone); err != nil {
		t.Fatalf("expected resend after interval, got %v", err)
	}
}

func TestSignInRetryAfterFailedDispatch(t *testing.T) {
	fx := newFixture(t, Options{MaxAttempts: 3})
	fx.users.byPhone[phone] = &user.User{ID: "m1", Role: user.RoleMember, PhoneNumber: phone}
	ctx := context.Background()

	fx.sender.err = errors.New("gateway down")
	if err := fx.flow.SendSignInCode(ctx, phone); !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	fx.sender.err = nil
	if err := fx.flow.SendSignInCode(ctx, phone); err != nil {
		t.Fatalf("retry after the gateway recovered: %v", err)
	}
	if fx.sender.code(phone) == "" {
		t.Fatal("expected a code on retry")
	}
}

func TestSignInKeepsCodeWhenLookupFails(t *testing.T) {
	fx := newFixture(t, Options{MaxAttempts: 3})
	fx.users.byPhone[phone] = &user.User{ID: "m1", Role: user.RoleMember, PhoneNumber: phone}
	ctx := context.Background()

	if err := fx.flow.SendSignInCode(ctx, phone); err != nil {
		t.Fatalf("SendSignInCode: %v", err)
	}
	code := fx.sender.code(phone)

	fx.users.lookupErr = errors.New("connection reset")
	if _, err := fx.flow.SignIn(ctx, phone, code); err == nil {
		t.Fatal("expected the lookup failure")
	}
	fx.users.lookupErr = nil

	s, err := fx.flow.SignIn(ctx, phone, code)
	if err != nil {
		t.Fatalf("SignIn after recovery: %v", err)
	}
	if s.User.ID != "m1" {
		t.Fatalf("signed in as %s", s.User.ID)
	}
}
