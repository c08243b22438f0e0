package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"meetup-service/internal/logger"
)

// Cache keys for the two list endpoints whose responses are cached.
const (
	KeyEvents = "cache:events"
	KeyStats  = "cache:stats"
)

// Cache is a best-effort Redis response cache for GET /api/events and
// GET /api/stats. Every failure is logged and swallowed; a broken cache
// never fails a request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func New(client *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: log}
}

// Get returns the cached body for key, and whether it was a hit.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.LogCache("GET", key, fmt.Sprintf("lookup failed: %v", err))
		return nil, false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key string, body []byte) {
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.logger.LogCache("SET", key, fmt.Sprintf("write failed: %v", err))
	}
}

// Invalidate drops cached bodies after a mutation.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.LogCache("DEL", fmt.Sprint(keys), fmt.Sprintf("invalidate failed: %v", err))
	}
}
