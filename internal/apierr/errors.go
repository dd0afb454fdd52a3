// Package apierr defines the API error taxonomy and its HTTP status mapping.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API error.
type Kind int

const (
	// KindValidation indicates malformed input.
	KindValidation Kind = iota
	// KindAuthentication indicates a missing or invalid credential.
	KindAuthentication
	// KindAuthorization indicates a denied action.
	KindAuthorization
	// KindCSRF indicates a failed CSRF check.
	KindCSRF
	// KindRateLimit indicates an exhausted rate limit.
	KindRateLimit
	// KindNotFound indicates a missing resource.
	KindNotFound
	// KindConfiguration indicates an unconfigured or unavailable backend.
	KindConfiguration
	// KindUnexpected indicates any other failure.
	KindUnexpected
)

// Error is an API error with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization, KindCSRF:
		return http.StatusForbidden
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindNotFound:
		return http.StatusNotFound
	case KindConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Authentication creates an authentication error.
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Authorization creates an authorization error.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// CSRF creates a CSRF validation error.
func CSRF(message string) *Error {
	return &Error{Kind: KindCSRF, Message: message}
}

// RateLimited creates a rate limit error.
func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimit, Message: message}
}

// NotFound creates a not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Configuration creates a configuration error.
func Configuration(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// Unexpected wraps any error into a generic 500 without leaking detail.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: "An unexpected error occurred", Err: err}
}

// FromError converts an arbitrary error to an *Error, defaulting to
// KindUnexpected for unclassified errors.
func FromError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Unexpected(err)
}
