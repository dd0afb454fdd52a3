package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// defaultCleanupInterval bounds how often the opportunistic global sweep may
// run. The sweep is triggered by request traffic rather than a background
// timer, so under zero traffic stale entries persist harmlessly until the
// next request arrives.
const defaultCleanupInterval = 5 * time.Minute

// SlidingWindowLimiter enforces a per-key quota over a continuously moving
// time window. It keeps an ordered sequence of request timestamps per key;
// a request is allowed when fewer than limit timestamps fall inside
// [now-window, now]. Rejected requests are not recorded.
type SlidingWindowLimiter struct {
	limit  int
	window time.Duration
	logger *zap.Logger

	windows sync.Map // key -> *windowState

	cleanupInterval time.Duration
	cleanupMu       sync.Mutex
	lastCleanup     time.Time
}

// windowState holds the in-window timestamps for one key.
type windowState struct {
	mu       sync.Mutex
	requests []time.Time
}

// SlidingWindowOption configures a SlidingWindowLimiter.
type SlidingWindowOption func(*SlidingWindowLimiter)

// WithCleanupInterval overrides the minimum interval between global sweeps.
func WithCleanupInterval(interval time.Duration) SlidingWindowOption {
	return func(l *SlidingWindowLimiter) {
		if interval > 0 {
			l.cleanupInterval = interval
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) SlidingWindowOption {
	return func(l *SlidingWindowLimiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(limit int, window time.Duration, opts ...SlidingWindowOption) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		limit:           limit,
		window:          window,
		logger:          zap.NewNop(),
		cleanupInterval: defaultCleanupInterval,
		lastCleanup:     time.Now(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow implements Limiter.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	return l.AllowN(ctx, key, 1)
}

// AllowN implements Limiter.
func (l *SlidingWindowLimiter) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	now := time.Now()
	l.maybeCleanup(now)

	ws := l.getOrCreateWindowState(key)

	ws.mu.Lock()
	defer ws.mu.Unlock()

	l.dropExpired(ws, now)

	currentCount := len(ws.requests)
	allowed := currentCount+n <= l.limit
	if allowed {
		for i := 0; i < n; i++ {
			ws.requests = append(ws.requests, now)
		}
		currentCount += n
	}

	remaining := l.limit - currentCount
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:    allowed,
		Limit:      l.limit,
		Remaining:  remaining,
		ResetAfter: l.resetAfter(ws, now),
		RetryAfter: l.retryAfter(ws, now, currentCount, n, allowed),
	}, nil
}

// Reset implements Limiter.
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	l.windows.Delete(key)
	return nil
}

// getOrCreateWindowState retrieves or creates the window state for a key.
func (l *SlidingWindowLimiter) getOrCreateWindowState(key string) *windowState {
	value, _ := l.windows.LoadOrStore(key, &windowState{
		requests: make([]time.Time, 0),
	})
	return value.(*windowState)
}

// dropExpired removes timestamps that fell out of the window.
// Caller must hold ws.mu.
func (l *SlidingWindowLimiter) dropExpired(ws *windowState, now time.Time) {
	windowStart := now.Add(-l.window)
	valid := make([]time.Time, 0, len(ws.requests))
	for _, t := range ws.requests {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	ws.requests = valid
}

// resetAfter returns the duration until the oldest in-window request expires.
func (l *SlidingWindowLimiter) resetAfter(ws *windowState, now time.Time) time.Duration {
	if len(ws.requests) == 0 {
		return l.window
	}
	reset := ws.requests[0].Add(l.window).Sub(now)
	if reset < 0 {
		reset = 0
	}
	return reset
}

// retryAfter returns how long a rejected caller must wait for enough
// in-window requests to expire.
func (l *SlidingWindowLimiter) retryAfter(ws *windowState, now time.Time, currentCount, n int, allowed bool) time.Duration {
	if allowed || len(ws.requests) == 0 {
		return 0
	}

	excess := currentCount + n - l.limit
	if excess <= 0 || excess > len(ws.requests) {
		return 0
	}

	retry := ws.requests[excess-1].Add(l.window).Sub(now)
	if retry < 0 {
		retry = 0
	}
	return retry
}

// maybeCleanup runs the global sweep when more than cleanupInterval has
// elapsed since the previous sweep. This bounds memory growth from one-shot
// clients without a background goroutine.
func (l *SlidingWindowLimiter) maybeCleanup(now time.Time) {
	l.cleanupMu.Lock()
	if now.Sub(l.lastCleanup) < l.cleanupInterval {
		l.cleanupMu.Unlock()
		return
	}
	l.lastCleanup = now
	l.cleanupMu.Unlock()

	removed := l.Cleanup(l.window)
	if removed > 0 {
		l.logger.Debug("rate limit sweep removed stale identifiers",
			zap.Int("removed", removed),
		)
	}
}

// Cleanup removes keys whose every timestamp is older than maxAge.
// It returns the number of keys removed.
func (l *SlidingWindowLimiter) Cleanup(maxAge time.Duration) int {
	windowStart := time.Now().Add(-maxAge)
	removed := 0

	l.windows.Range(func(key, value interface{}) bool {
		ws := value.(*windowState)
		ws.mu.Lock()

		allOld := true
		for _, t := range ws.requests {
			if t.After(windowStart) {
				allOld = false
				break
			}
		}

		if allOld {
			l.windows.Delete(key)
			removed++
		}

		ws.mu.Unlock()
		return true
	})

	return removed
}
