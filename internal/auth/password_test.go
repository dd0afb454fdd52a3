package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	match, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("same password")
	require.NoError(t, err)

	second, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "not a phc string", encoded: "plaintext"},
		{name: "wrong algorithm", encoded: "$bcrypt$v=19$m=65536,t=2,p=2$c2FsdA$aGFzaA"},
		{name: "truncated", encoded: "$argon2id$v=19$m=65536"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyPassword("anything", tt.encoded)
			assert.Error(t, err)
		})
	}
}
