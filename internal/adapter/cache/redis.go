// Package cache provides the interview reply cache. The cache is an
// explicit, injected collaborator: handlers receive a domain.ReplyCache
// and a disabled implementation is a no-op, so caching never hides inside
// package state.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hireflow/candidate-assessor/internal/domain"
)

// RedisCache implements domain.ReplyCache on Redis with a TTL per entry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a RedisCache from a redis URL.
func NewRedis(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=cache.NewRedis: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// NewRedisWithClient wraps an existing client; used by tests.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached reply and whether it was present.
func (c *RedisCache) Get(ctx domain.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("op=cache.Get: %w", err)
	}
	return val, true, nil
}

// Set stores a reply under key with the configured TTL.
func (c *RedisCache) Set(ctx domain.Context, key, reply string) error {
	if err := c.client.Set(ctx, key, reply, c.ttl).Err(); err != nil {
		return fmt.Errorf("op=cache.Set: %w", err)
	}
	return nil
}

// Enabled reports true; construct a Noop cache to disable caching.
func (c *RedisCache) Enabled() bool { return true }

// Close releases the underlying client.
func (c *RedisCache) Close() error { return c.client.Close() }
