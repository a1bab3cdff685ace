// Package cache wraps Redis-backed snapshot caching.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss indicates the key is absent or unreadable.
var ErrMiss = errors.New("cache: miss")

// Snapshot stores JSON-serialised values with a fixed TTL. A nil *Snapshot
// is a valid no-op cache, so callers never need to branch on availability.
type Snapshot struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshot instantiates the cache helper.
func NewSnapshot(client *redis.Client, ttl time.Duration) *Snapshot {
	return &Snapshot{client: client, ttl: ttl}
}

// Get unmarshals the cached value for key into target.
func (c *Snapshot) Get(ctx context.Context, key string, target any) error {
	if c == nil || c.client == nil {
		return ErrMiss
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return ErrMiss
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return ErrMiss
	}
	return nil
}

// Set stores value under key for the configured TTL.
func (c *Snapshot) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// Invalidate removes the cached value for key.
func (c *Snapshot) Invalidate(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
