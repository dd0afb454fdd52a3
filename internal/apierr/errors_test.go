package apierr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Status(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected int
	}{
		{name: "validation", err: Validation("bad input"), expected: http.StatusBadRequest},
		{name: "authentication", err: Authentication("who are you"), expected: http.StatusUnauthorized},
		{name: "authorization", err: Authorization("not yours"), expected: http.StatusForbidden},
		{name: "csrf", err: CSRF("token mismatch"), expected: http.StatusForbidden},
		{name: "rate limit", err: RateLimited("slow down"), expected: http.StatusTooManyRequests},
		{name: "not found", err: NotFound("gone"), expected: http.StatusNotFound},
		{name: "configuration", err: Configuration("demo mode"), expected: http.StatusServiceUnavailable},
		{name: "unexpected", err: Unexpected(errors.New("boom")), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Status())
		})
	}
}

func TestUnexpected_HidesDetail(t *testing.T) {
	inner := errors.New("pq: connection refused")
	err := Unexpected(inner)

	assert.Equal(t, "An unexpected error occurred", err.Message)
	assert.ErrorIs(t, err, inner)
}

func TestFromError(t *testing.T) {
	notFound := NotFound("Person not found")
	assert.Same(t, notFound, FromError(notFound))

	wrapped := FromError(errors.New("plain"))
	require.NotNil(t, wrapped)
	assert.Equal(t, KindUnexpected, wrapped.Kind)
	assert.Equal(t, http.StatusInternalServerError, wrapped.Status())
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindValidation, Message: "bad input", Err: errors.New("field x")}
	assert.Equal(t, "bad input: field x", err.Error())

	err = Validation("bad input")
	assert.Equal(t, "bad input", err.Error())
}
