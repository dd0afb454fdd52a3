// Package csrf implements double-submit cookie CSRF protection. A random
// token is issued in a cookie readable by client script; mutating requests
// must echo the token back in a header, and validity is solely "cookie value
// equals submitted value" with no server-side session store.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
)

const (
	// CookieName is the name of the CSRF token cookie.
	CookieName = "csrf-token"

	// HeaderName is the request header carrying the echoed token.
	HeaderName = "X-CSRF-Token"

	// tokenBytes is the token entropy in bytes before hex encoding.
	tokenBytes = 32
)

// Validation errors.
var (
	ErrMissingCookie = errors.New("csrf cookie missing")
	ErrMissingToken  = errors.New("csrf token missing from request")
	ErrTokenMismatch = errors.New("csrf token mismatch")
)

// Manager issues and validates CSRF tokens.
type Manager struct {
	cookieName string
	headerName string
	secure     bool
	maxAge     int
}

// Option configures a Manager.
type Option func(*Manager)

// WithSecureCookie marks the cookie as HTTPS-only.
func WithSecureCookie(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithCookieMaxAge sets the cookie lifetime in seconds.
func WithCookieMaxAge(seconds int) Option {
	return func(m *Manager) {
		m.maxAge = seconds
	}
}

// NewManager creates a CSRF manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		cookieName: CookieName,
		headerName: HeaderName,
		maxAge:     24 * 60 * 60,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Issue mints a new random token.
func (m *Manager) Issue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("csrf token generation: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// TokenFromCookie returns the token stored in the request cookie, or ""
// when absent.
func (m *Manager) TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetCookie writes the token cookie on the response. The cookie is not
// HTTP-only: client script must read it to echo the token in the header.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   m.maxAge,
		Secure:   m.secure,
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	})
}

// Validate compares the cookie token against the header token for a
// mutating request. Safe methods must not be passed here.
func (m *Manager) Validate(r *http.Request) error {
	cookieToken := m.TokenFromCookie(r)
	if cookieToken == "" {
		return ErrMissingCookie
	}

	submitted := r.Header.Get(m.headerName)
	if submitted == "" {
		return ErrMissingToken
	}

	if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submitted)) != 1 {
		return ErrTokenMismatch
	}
	return nil
}

// IsSafeMethod reports whether the method never mutates state and is
// exempt from CSRF validation.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
