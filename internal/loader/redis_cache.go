package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores fetched documents in Redis so that several instances
// share one cache.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to redisURL and verifies the connection.
func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("loader: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("loader: connect to redis: %w", err)
	}
	return NewRedisCacheWithClient(client, ttl), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: "folio:doc:", ttl: ttl}
}

func (c *RedisCache) key(k CacheKey) string {
	return c.prefix + k.String()
}

// Get returns the cached document for k.
func (c *RedisCache) Get(ctx context.Context, k CacheKey) (string, bool, error) {
	text, err := c.client.Get(ctx, c.key(k)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loader: redis get: %w", err)
	}
	return text, true, nil
}

// Set stores text under k with the configured TTL (0 keeps it forever).
func (c *RedisCache) Set(ctx context.Context, k CacheKey, text string) error {
	if err := c.client.Set(ctx, c.key(k), text, c.ttl).Err(); err != nil {
		return fmt.Errorf("loader: redis set: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
