package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/candidate-assessor/internal/adapter/cache"
)

func newTestCache(t *testing.T, ttl time.Duration) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewRedisWithClient(client, ttl), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "reply:abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "reply:abc", "cached reply"))

	got, ok, err := c.Get(ctx, "reply:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cached reply", got)
	assert.True(t, c.Enabled())
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	t.Parallel()
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "reply:x", "v"))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "reply:x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNoop(t *testing.T) {
	t.Parallel()
	n := cache.NewNoop()
	assert.False(t, n.Enabled())
	require.NoError(t, n.Set(context.Background(), "k", "v"))
	_, ok, err := n.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
