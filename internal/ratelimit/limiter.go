// Package ratelimit provides sliding-window rate limiting for the API surface.
// Each named preset (general, auth, read, write, delete, seed) carries its own
// limit and window and is enforced independently per client identifier.
package ratelimit

import (
	"context"
	"time"
)

// Limiter defines the interface for rate limiting.
type Limiter interface {
	// Allow checks if a single request is allowed for the given key.
	Allow(ctx context.Context, key string) (*Result, error)

	// AllowN checks if n requests are allowed for the given key.
	AllowN(ctx context.Context, key string, n int) (*Result, error)

	// Reset resets the rate limit state for the given key.
	Reset(ctx context.Context, key string) error
}

// Result represents the result of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is allowed.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests remaining in the current window.
	Remaining int

	// ResetAfter is the duration until the oldest in-window request expires.
	ResetAfter time.Duration

	// RetryAfter is the duration to wait before retrying (when not allowed).
	RetryAfter time.Duration
}

// Config holds the limit and window for one preset.
type Config struct {
	// Limit is the maximum number of requests allowed in the window.
	Limit int `yaml:"limit"`

	// Window is the time window for the rate limit.
	Window time.Duration `yaml:"window"`
}

// Preset names. Each API route group is bound to one of these.
const (
	PresetGeneral = "general"
	PresetAuth    = "auth"
	PresetRead    = "read"
	PresetWrite   = "write"
	PresetDelete  = "delete"
	PresetSeed    = "seed"
)

// DefaultPresets returns the default limit/window pairs per preset.
func DefaultPresets() map[string]Config {
	return map[string]Config{
		PresetGeneral: {Limit: 100, Window: time.Minute},
		PresetAuth:    {Limit: 10, Window: 15 * time.Minute},
		PresetRead:    {Limit: 300, Window: time.Minute},
		PresetWrite:   {Limit: 60, Window: time.Minute},
		PresetDelete:  {Limit: 30, Window: time.Minute},
		PresetSeed:    {Limit: 5, Window: time.Hour},
	}
}

// NoopLimiter is a rate limiter that always allows requests.
type NoopLimiter struct{}

// NewNoopLimiter creates a new noop limiter.
func NewNoopLimiter() *NoopLimiter {
	return &NoopLimiter{}
}

// Allow implements Limiter.
func (l *NoopLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	return &Result{Allowed: true}, nil
}

// AllowN implements Limiter.
func (l *NoopLimiter) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	return l.Allow(ctx, key)
}

// Reset implements Limiter.
func (l *NoopLimiter) Reset(ctx context.Context, key string) error {
	return nil
}
