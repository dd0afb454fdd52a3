package ratelimit

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fittrack/fittrack/internal/ratelimit/store"
)

// defaultPrecision is the number of sub-windows used by the distributed
// sliding-window counter.
const defaultPrecision = 10

// Ensure DistributedLimiter implements Limiter.
var _ Limiter = (*DistributedLimiter)(nil)

// DistributedLimiter approximates a sliding window over a shared counter
// store by dividing the window into sub-windows and summing their counts.
// It allows multiple server processes to enforce one quota.
type DistributedLimiter struct {
	store     store.Store
	limit     int
	window    time.Duration
	precision int
	logger    *zap.Logger
}

// NewDistributedLimiter creates a limiter over the given counter store.
func NewDistributedLimiter(s store.Store, limit int, window time.Duration, logger *zap.Logger) *DistributedLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DistributedLimiter{
		store:     s,
		limit:     limit,
		window:    window,
		precision: defaultPrecision,
		logger:    logger,
	}
}

// Allow implements Limiter.
func (l *DistributedLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	return l.AllowN(ctx, key, 1)
}

// AllowN implements Limiter.
func (l *DistributedLimiter) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	now := time.Now()
	subWindowMs := l.subWindowMillis()
	currentSubWindow := now.UnixMilli() / subWindowMs

	total := int64(0)
	for i := 0; i < l.precision; i++ {
		count, err := l.store.Get(ctx, l.subWindowKey(key, currentSubWindow-int64(i)))
		if err != nil && !store.IsKeyNotFound(err) {
			return nil, err
		}
		total += count
	}

	allowed := int(total)+n <= l.limit
	if allowed {
		expiration := l.window + time.Duration(subWindowMs)*time.Millisecond
		if _, err := l.store.IncrementWithExpiry(ctx,
			l.subWindowKey(key, currentSubWindow), int64(n), expiration); err != nil {
			l.logger.Warn("failed to increment rate limit counter", zap.Error(err))
		}
		total += int64(n)
	}

	remaining := l.limit - int(total)
	if remaining < 0 {
		remaining = 0
	}

	var retryAfter time.Duration
	if !allowed {
		// Approximate time until the oldest sub-window expires.
		retryAfter = time.Duration(subWindowMs) * time.Millisecond
	}

	return &Result{
		Allowed:    allowed,
		Limit:      l.limit,
		Remaining:  remaining,
		ResetAfter: l.window,
		RetryAfter: retryAfter,
	}, nil
}

// Reset implements Limiter.
func (l *DistributedLimiter) Reset(ctx context.Context, key string) error {
	subWindowMs := l.subWindowMillis()
	currentSubWindow := time.Now().UnixMilli() / subWindowMs

	for i := 0; i < l.precision; i++ {
		if err := l.store.Delete(ctx, l.subWindowKey(key, currentSubWindow-int64(i))); err != nil {
			return err
		}
	}
	return nil
}

// subWindowMillis floors the sub-window at 1ms so windows shorter than
// the precision still divide cleanly.
func (l *DistributedLimiter) subWindowMillis() int64 {
	ms := l.window.Milliseconds() / int64(l.precision)
	if ms < 1 {
		ms = 1
	}
	return ms
}

func (l *DistributedLimiter) subWindowKey(key string, subWindow int64) string {
	return key + ":sw:" + strconv.FormatInt(subWindow, 10)
}
