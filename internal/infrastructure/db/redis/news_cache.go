package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/newsfeed/newsfeed-api/internal/core/ports"
)

// DefaultNewsTTL bounds how long an upstream payload is served from cache.
const DefaultNewsTTL = 5 * time.Minute

// NewsCache stores upstream news payloads in Redis.
// Key format: news:<query hash>
type NewsCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.NewsCache = (*NewsCache)(nil)

// NewNewsCache wraps client. A non-positive ttl falls back to DefaultNewsTTL.
func NewNewsCache(client *redis.Client, ttl time.Duration) *NewsCache {
	if ttl <= 0 {
		ttl = DefaultNewsTTL
	}
	return &NewsCache{client: client, ttl: ttl}
}

// Get returns the cached payload for key. A miss is (nil, false, nil).
func (c *NewsCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("news cache get: %w", err)
	}
	return b, true, nil
}

// Set stores payload under key until the TTL elapses.
func (c *NewsCache) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, c.key(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("news cache set: %w", err)
	}
	return nil
}

func (c *NewsCache) key(k string) string {
	return "news:" + k
}
