package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Total int `json:"total"`
}

func TestDigestCacheRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewDigestCache(client, time.Minute)
	ctx := context.Background()

	var got payload
	ok, err := c.Get(ctx, "2024-05-01", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss on empty cache")
	}

	if err := c.Set(ctx, "2024-05-01", payload{Total: 3}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("news:digest:2024-05-01") {
		t.Fatalf("expected redis key to be set")
	}

	ok, err = c.Get(ctx, "2024-05-01", &got)
	if err != nil || !ok {
		t.Fatalf("get after set: ok=%v err=%v", ok, err)
	}
	if got.Total != 3 {
		t.Fatalf("payload lost: %+v", got)
	}

	// Other days stay independent.
	ok, _ = c.Get(ctx, "2024-05-02", &got)
	if ok {
		t.Fatalf("unexpected hit for different day")
	}
}

func TestDigestCacheExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewDigestCache(client, time.Second)
	ctx := context.Background()

	if err := c.Set(ctx, "2024-05-01", payload{Total: 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)

	var got payload
	ok, err := c.Get(ctx, "2024-05-01", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestNilDigestCacheIsNoop(t *testing.T) {
	var c *DigestCache
	ctx := context.Background()
	if err := c.Set(ctx, "2024-05-01", payload{Total: 1}); err != nil {
		t.Fatalf("nil set: %v", err)
	}
	var got payload
	ok, err := c.Get(ctx, "2024-05-01", &got)
	if err != nil || ok {
		t.Fatalf("nil get: ok=%v err=%v", ok, err)
	}
}
