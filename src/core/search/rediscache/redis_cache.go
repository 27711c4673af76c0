package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nextdocs/src/log"
)

// Cache is a Redis-backed response cache. It is a pure performance layer:
// every Redis failure is logged and reported as a miss, so an unavailable
// store never fails a search request.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis using a redis:// URL.
func NewCache(url string) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &Cache{client: redis.NewClient(opts)}, nil
}

// NewCacheFromClient wraps an existing client, mainly for tests.
func NewCacheFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Error(err, "cache read failed", "key", key)
		}
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Error(err, "cache write failed", "key", key)
	}
}

// Ping reports cache reachability for health checks.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
