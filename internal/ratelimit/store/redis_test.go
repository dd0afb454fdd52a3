package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStoreWithClient(client, "ratelimit:"), mr
}

func TestRedisStore_GetMissingKey(t *testing.T) {
	s, _ := newTestRedisStore(t)

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsKeyNotFound(err))
}

func TestRedisStore_IncrementWithExpiry(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	value, err := s.IncrementWithExpiry(ctx, "counter", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)

	value, err = s.IncrementWithExpiry(ctx, "counter", 4, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(5), value)

	value, err = s.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(5), value)

	ttl := mr.TTL("ratelimit:counter")
	assert.Greater(t, ttl, time.Duration(0), "first increment must set an expiry")
}

func TestRedisStore_Expiration(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	_, err := s.IncrementWithExpiry(ctx, "short", 1, time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = s.Get(ctx, "short")
	assert.True(t, IsKeyNotFound(err))
}

func TestRedisStore_Delete(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()

	_, err := s.IncrementWithExpiry(ctx, "counter", 1, time.Minute)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "counter"))

	_, err = s.Get(ctx, "counter")
	assert.True(t, IsKeyNotFound(err))
}
