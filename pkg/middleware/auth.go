package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/FaisalEngish/Kontrib/internal/auth"
	"github.com/FaisalEngish/Kontrib/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey ContextKey = "user_id"

	testUserHeader = "X-Test-User-ID"
)

// TokenParser validates bearer tokens
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticator resolves the acting user for each request
type Authenticator struct {
	tokens TokenParser
	// devHeader accepts X-Test-User-ID when no bearer token is sent (DEV ONLY)
	devHeader bool
}

// NewAuthenticator creates an authenticator. tokens may be nil when only the
// development header is in use.
func NewAuthenticator(tokens TokenParser, devHeader bool) *Authenticator {
	return &Authenticator{tokens: tokens, devHeader: devHeader}
}

// Identify attaches the user ID to the context when the request carries valid
// credentials. Requests without credentials pass through anonymously; an
// invalid bearer token is rejected.
func (a *Authenticator) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}
			if a.tokens == nil {
				response.Unauthorized(w, "Bearer tokens are not accepted")
				return
			}
			claims, err := a.tokens.Parse(parts[1])
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
			return
		}

		if a.devHeader {
			if userID := strings.TrimSpace(r.Header.Get(testUserHeader)); userID != "" {
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// RequireUser rejects requests that were not identified
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserID(r.Context()); !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUserID returns a context carrying the acting user ID
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
