package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// Authenticator derives an auth context from an HTTP request.
type Authenticator interface {
	// Authenticate resolves the caller identity. A nil error with
	// Authenticated=false means the credential was absent or invalid.
	Authenticate(r *http.Request) (*Context, error)
}

// DemoAuthenticator is used when no backend is configured: every request is
// authenticated with no user or household identity.
type DemoAuthenticator struct{}

// NewDemoAuthenticator creates a demo-mode authenticator.
func NewDemoAuthenticator() *DemoAuthenticator {
	return &DemoAuthenticator{}
}

// Authenticate implements Authenticator.
func (a *DemoAuthenticator) Authenticate(r *http.Request) (*Context, error) {
	return &Context{Authenticated: true, DemoMode: true}, nil
}

// TokenAuthenticator validates bearer session tokens.
type TokenAuthenticator struct {
	issuer *TokenIssuer
	logger *zap.Logger
}

// NewTokenAuthenticator creates a token-based authenticator.
func NewTokenAuthenticator(issuer *TokenIssuer, logger *zap.Logger) *TokenAuthenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenAuthenticator{issuer: issuer, logger: logger}
}

// Authenticate implements Authenticator.
func (a *TokenAuthenticator) Authenticate(r *http.Request) (*Context, error) {
	token, ok := BearerToken(r)
	if !ok {
		return &Context{}, nil
	}

	claims, err := a.issuer.Validate(token)
	if err != nil {
		a.logger.Debug("session token rejected", zap.Error(err))
		return &Context{}, nil
	}

	return &Context{
		Authenticated: true,
		UserID:        claims.UserID,
		HouseholdID:   claims.HouseholdID,
	}, nil
}
