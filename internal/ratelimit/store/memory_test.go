package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissingKey(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsKeyNotFound(err))
}

func TestMemoryStore_IncrementWithExpiry(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	value, err := s.IncrementWithExpiry(ctx, "counter", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)

	value, err = s.IncrementWithExpiry(ctx, "counter", 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(4), value)

	value, err = s.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(4), value)
}

func TestMemoryStore_Expiration(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	_, err := s.IncrementWithExpiry(ctx, "short", 1, 20*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	_, err = s.Get(ctx, "short")
	assert.True(t, IsKeyNotFound(err))

	// Incrementing an expired key restarts the counter.
	value, err := s.IncrementWithExpiry(ctx, "short", 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), value)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	_, err := s.IncrementWithExpiry(ctx, "counter", 1, time.Minute)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "counter"))

	_, err = s.Get(ctx, "counter")
	assert.True(t, IsKeyNotFound(err))
}

func TestMemoryStore_CloseIdempotent(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestMemoryStore_BackgroundSweep(t *testing.T) {
	s := NewMemoryStoreWithCleanupInterval(10 * time.Millisecond)
	defer s.Close()
	ctx := context.Background()

	_, err := s.IncrementWithExpiry(ctx, "stale", 1, 5*time.Millisecond)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, ok := s.data["stale"]
		return !ok
	}, time.Second, 10*time.Millisecond)
}
