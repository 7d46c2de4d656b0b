package onboarding

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
	"github.com/FaisalEngish/Kontrib/internal/metrics"
	"github.com/FaisalEngish/Kontrib/internal/user"
)

// UserLookup finds registered users by phone number
type UserLookup interface {
	GetByPhone(ctx context.Context, phone string) (*user.User, error)
}

// SignedIn is a returning user with a fresh access token
type SignedIn struct {
	User      *user.User
	Token     string
	ExpiresAt time.Time
}

const signInKeyPrefix = "signin:"

// SendSignInCode issues a code to a registered phone number. Unknown
// numbers are not told apart from known ones; no code is sent to them.
func (f *Flow) SendSignInCode(ctx context.Context, rawPhone string) error {
	phone, err := user.NormalizePhone(rawPhone)
	if err != nil {
		return err
	}

	if _, err := f.deps.Lookup.GetByPhone(ctx, phone); err != nil {
		if apperr.KindOf(err) != apperr.ErrNotFound {
			return err
		}
		// unknown numbers hold the resend slot like known ones do
		if release, wait := f.throttle.Reserve(phone); release == nil {
			metrics.OTPSent.WithLabelValues("throttled").Inc()
			return apperr.New(apperr.ErrRateLimited, fmt.Sprintf("please wait %ds before requesting another code", int(math.Ceil(wait.Seconds()))))
		}
		return nil
	}

	_, err = f.dispatch(ctx, phone, signInKeyPrefix+phone)
	return err
}

// SignIn exchanges a sign-in code for an access token
func (f *Flow) SignIn(ctx context.Context, rawPhone, plain string) (*SignedIn, error) {
	phone, err := user.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}
	plain = strings.TrimSpace(plain)
	if !isSixDigits(plain) {
		return nil, ErrCodeFormat
	}

	key := signInKeyPrefix + phone
	code, err := f.deps.Codes.Take(ctx, key)
	if err != nil {
		return nil, err
	}
	if code == nil || !f.now().Before(code.ExpiresAt) {
		metrics.OTPVerifications.WithLabelValues("expired").Inc()
		return nil, ErrCodeExpired
	}
	if !code.Matches(plain) {
		code.Attempts++
		if code.Attempts >= f.opts.MaxAttempts {
			metrics.OTPVerifications.WithLabelValues("locked").Inc()
			return nil, ErrTooManyAttempts
		}
		if err := f.deps.Codes.Restore(ctx, key, *code); err != nil {
			log.Printf("onboarding: failed to restore sign-in code: %v", err)
		}
		metrics.OTPVerifications.WithLabelValues("invalid").Inc()
		return nil, ErrCodeInvalid
	}

	signedIn, err := f.issueFor(ctx, phone)
	if err != nil {
		// the code was right; let the user retry once the failure clears
		if rerr := f.deps.Codes.Restore(ctx, key, *code); rerr != nil {
			log.Printf("onboarding: failed to restore sign-in code: %v", rerr)
		}
		return nil, err
	}
	metrics.OTPVerifications.WithLabelValues("success").Inc()
	return signedIn, nil
}

func (f *Flow) issueFor(ctx context.Context, phone string) (*SignedIn, error) {
	u, err := f.deps.Lookup.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := f.deps.Tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &SignedIn{User: u, Token: token, ExpiresAt: expiresAt}, nil
}
