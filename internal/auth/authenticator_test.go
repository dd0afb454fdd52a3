package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoAuthenticator(t *testing.T) {
	a := NewDemoAuthenticator()

	r := httptest.NewRequest("GET", "/api/persons", nil)
	ac, err := a.Authenticate(r)
	require.NoError(t, err)

	assert.True(t, ac.Authenticated)
	assert.True(t, ac.DemoMode)
	assert.Empty(t, ac.UserID)
	assert.Empty(t, ac.HouseholdID)
}

func TestTokenAuthenticator(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)
	a := NewTokenAuthenticator(issuer, nil)

	token, err := issuer.Issue("user-1", "household-1")
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		authenticated bool
	}{
		{
			name:          "valid bearer token",
			authorization: "Bearer " + token,
			authenticated: true,
		},
		{
			name:          "lowercase scheme",
			authorization: "bearer " + token,
			authenticated: true,
		},
		{
			name:          "no header",
			authenticated: false,
		},
		{
			name:          "wrong scheme",
			authorization: "Basic dXNlcjpwYXNz",
			authenticated: false,
		},
		{
			name:          "invalid token",
			authorization: "Bearer garbage",
			authenticated: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/persons", nil)
			if tt.authorization != "" {
				r.Header.Set("Authorization", tt.authorization)
			}

			ac, err := a.Authenticate(r)
			require.NoError(t, err)
			assert.Equal(t, tt.authenticated, ac.Authenticated)
			if tt.authenticated {
				assert.Equal(t, "user-1", ac.UserID)
				assert.Equal(t, "household-1", ac.HouseholdID)
			}
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	ac := &Context{Authenticated: true, UserID: "user-1", HouseholdID: "household-1"}

	ctx := ContextWith(context.Background(), ac)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, ac, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
