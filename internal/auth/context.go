// Package auth resolves caller identity for API requests: session tokens in
// configured modes, an always-authenticated identity-less context in demo
// mode, and argon2id password hashing for signup and login.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// Context is the per-request authentication context.
type Context struct {
	// Authenticated reports whether the caller presented a valid
	// credential, or the server runs in demo mode.
	Authenticated bool

	// DemoMode reports whether the server runs without a configured
	// backend. Demo callers carry no identity.
	DemoMode bool

	// UserID is the authenticated user, empty in demo mode.
	UserID string

	// HouseholdID is the caller's household, empty in demo mode.
	HouseholdID string
}

type contextKey struct{}

// ContextWith stores the auth context in the request context.
func ContextWith(ctx context.Context, ac *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// FromContext retrieves the auth context, if present.
func FromContext(ctx context.Context) (*Context, bool) {
	ac, ok := ctx.Value(contextKey{}).(*Context)
	return ac, ok
}

// BearerToken extracts a bearer token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	const prefix = "Bearer "
	if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(authHeader[len(prefix):]), true
}
