package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ============================================================================
// Test Cases for SlidingWindowLimiter - Basic Functionality
// ============================================================================

func TestSlidingWindowLimiter_New(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		window time.Duration
		opts   []SlidingWindowOption
	}{
		{
			name:   "defaults",
			limit:  100,
			window: time.Minute,
		},
		{
			name:   "with logger",
			limit:  50,
			window: 30 * time.Second,
			opts:   []SlidingWindowOption{WithLogger(zap.NewNop())},
		},
		{
			name:   "with cleanup interval",
			limit:  10,
			window: time.Minute,
			opts:   []SlidingWindowOption{WithCleanupInterval(time.Second)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewSlidingWindowLimiter(tt.limit, tt.window, tt.opts...)
			require.NotNil(t, limiter)
			assert.Equal(t, tt.limit, limiter.limit)
			assert.Equal(t, tt.window, limiter.window)
		})
	}
}

func TestSlidingWindowLimiter_AllowUnderLimit(t *testing.T) {
	limiter := NewSlidingWindowLimiter(5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := limiter.Allow(ctx, "client-1")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 5, result.Limit)
		assert.Equal(t, 5-(i+1), result.Remaining)
	}
}

func TestSlidingWindowLimiter_DenyOverLimit(t *testing.T) {
	limiter := NewSlidingWindowLimiter(3, time.Minute)
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

func TestSlidingWindowLimiter_DeniedRequestNotRecorded(t *testing.T) {
	limiter := NewSlidingWindowLimiter(2, 100*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := limiter.Allow(ctx, "client-1")
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}

	// Hammering a full window must not extend the lockout.
	for i := 0; i < 10; i++ {
		result, err := limiter.Allow(ctx, "client-1")
		require.NoError(t, err)
		require.False(t, result.Allowed)
	}

	time.Sleep(150 * time.Millisecond)

	result, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, result.Allowed, "window expiry should re-admit the client")
}

func TestSlidingWindowLimiter_WindowExpiry(t *testing.T) {
	limiter := NewSlidingWindowLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	result, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	result, err = limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	require.False(t, result.Allowed)

	time.Sleep(60 * time.Millisecond)

	result, err = limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestSlidingWindowLimiter_IndependentKeys(t *testing.T) {
	limiter := NewSlidingWindowLimiter(1, time.Minute)
	ctx := context.Background()

	result, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	result, err = limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)

	result, err = limiter.Allow(ctx, "client-2")
	require.NoError(t, err)
	assert.True(t, result.Allowed, "other clients keep their own window")
}

func TestSlidingWindowLimiter_AllowN(t *testing.T) {
	limiter := NewSlidingWindowLimiter(10, time.Minute)
	ctx := context.Background()

	result, err := limiter.AllowN(ctx, "client-1", 7)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 3, result.Remaining)

	result, err = limiter.AllowN(ctx, "client-1", 4)
	require.NoError(t, err)
	assert.False(t, result.Allowed)

	result, err = limiter.AllowN(ctx, "client-1", 3)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
}

func TestSlidingWindowLimiter_Reset(t *testing.T) {
	limiter := NewSlidingWindowLimiter(1, time.Minute)
	ctx := context.Background()

	result, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	require.NoError(t, limiter.Reset(ctx, "client-1"))

	result, err = limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestSlidingWindowLimiter_ContextCancelled(t *testing.T) {
	limiter := NewSlidingWindowLimiter(1, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := limiter.Allow(ctx, "client-1")
	assert.Error(t, err)
}

// ============================================================================
// Test Cases for SlidingWindowLimiter - Cleanup
// ============================================================================

func TestSlidingWindowLimiter_Cleanup(t *testing.T) {
	limiter := NewSlidingWindowLimiter(10, 20*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := limiter.Allow(ctx, fmt.Sprintf("client-%d", i))
		require.NoError(t, err)
	}

	time.Sleep(30 * time.Millisecond)

	removed := limiter.Cleanup(20 * time.Millisecond)
	assert.Equal(t, 5, removed)

	// A fresh key must survive the next sweep.
	_, err := limiter.Allow(ctx, "client-fresh")
	require.NoError(t, err)
	removed = limiter.Cleanup(20 * time.Millisecond)
	assert.Equal(t, 0, removed)
}

// ============================================================================
// Test Cases for SlidingWindowLimiter - Concurrency
// ============================================================================

func TestSlidingWindowLimiter_ConcurrentExactCount(t *testing.T) {
	const limit = 50
	const attempts = 200

	limiter := NewSlidingWindowLimiter(limit, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	allowed := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := limiter.Allow(ctx, "shared")
			allowed <- err == nil && result.Allowed
		}()
	}

	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, limit, count, "exactly the limit may pass under contention")
}
