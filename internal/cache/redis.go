package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DigestCache keeps the viewer-independent part of a daily news digest in
// redis, keyed by calendar day. A nil *DigestCache is a valid no-op cache, so
// callers never branch on whether redis is configured.
type DigestCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDigestCache(client *redis.Client, ttl time.Duration) *DigestCache {
	return &DigestCache{client: client, ttl: ttl}
}

func key(day string) string { return "news:digest:" + day }

// Get loads the cached digest for a day into v. ok is false on a miss.
// Cache errors are surfaced so callers can log and fall through.
func (c *DigestCache) Get(ctx context.Context, day string, v any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key(day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DigestCache) Set(ctx context.Context, day string, v any) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(day), raw, c.ttl).Err()
}
