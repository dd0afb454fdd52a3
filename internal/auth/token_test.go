package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)

	token, err := issuer.Issue("user-1", "household-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "household-1", claims.HouseholdID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)
	issuer.ttl = -time.Minute

	token, err := issuer.Issue("user-1", "household-1")
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)
	other := NewTokenIssuer([]byte("other-secret"), time.Hour)

	token, err := issuer.Issue("user-1", "household-1")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)

	tests := []string{"", "not-a-token", "a.b.c"}
	for _, tokenString := range tests {
		_, err := issuer.Validate(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenIssuer_DefaultTTL(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), 0)
	assert.Equal(t, DefaultTokenTTL, issuer.ttl)
}
