package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/fittrack/internal/ratelimit/store"
)

func newDistributedLimiter(t *testing.T, limit int, window time.Duration) *DistributedLimiter {
	t.Helper()

	s := store.NewMemoryStore()
	t.Cleanup(func() { _ = s.Close() })

	return NewDistributedLimiter(s, limit, window, nil)
}

func TestDistributedLimiter_AllowUnderLimit(t *testing.T) {
	limiter := newDistributedLimiter(t, 5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := limiter.Allow(ctx, "client-1")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
}

func TestDistributedLimiter_DenyOverLimit(t *testing.T) {
	limiter := newDistributedLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, "client-1")
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}

	result, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

func TestDistributedLimiter_IndependentKeys(t *testing.T) {
	limiter := newDistributedLimiter(t, 1, time.Minute)
	ctx := context.Background()

	result, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	result, err = limiter.Allow(ctx, "client-2")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestDistributedLimiter_AllowN(t *testing.T) {
	limiter := newDistributedLimiter(t, 10, time.Minute)
	ctx := context.Background()

	result, err := limiter.AllowN(ctx, "client-1", 8)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 2, result.Remaining)

	result, err = limiter.AllowN(ctx, "client-1", 3)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
}

func TestDistributedLimiter_Reset(t *testing.T) {
	limiter := newDistributedLimiter(t, 1, time.Minute)
	ctx := context.Background()

	result, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	require.NoError(t, limiter.Reset(ctx, "client-1"))

	result, err = limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestDistributedLimiter_TinyWindow(t *testing.T) {
	// Windows shorter than the sub-window precision must not divide
	// by zero.
	limiter := newDistributedLimiter(t, 2, 5*time.Millisecond)
	ctx := context.Background()

	result, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	require.NoError(t, limiter.Reset(ctx, "client-1"))
}
