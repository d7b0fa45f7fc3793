package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"spotprice/backend-go/internal/config"
)

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	if !l.Allow(ctx, "1.2.3.4") || !l.Allow(ctx, "1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow(ctx, "1.2.3.4") {
		t.Fatal("third request in window should be limited")
	}
	if !l.Allow(ctx, "5.6.7.8") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow(ctx, "1.2.3.4") {
		t.Fatal("window reset should allow again")
	}
}

func TestMemoryLimiterCleansExpiredBuckets(t *testing.T) {
	now := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(5)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	l.Allow(ctx, "a")
	l.Allow(ctx, "b")
	now = now.Add(2 * time.Minute)
	l.Allow(ctx, "c")

	if len(l.buckets) != 1 {
		t.Fatalf("expected only the fresh bucket, got %d", len(l.buckets))
	}
}

func TestNewRateLimiterFallsBackToMemory(t *testing.T) {
	tests := []struct {
		name     string
		redisURL string
	}{
		{"unset", ""},
		{"invalid url", "://nope"},
		{"unreachable", "redis://127.0.0.1:1/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewRateLimiter(config.Config{RedisURL: tt.redisURL, RateLimitPerMin: 10})
			if l.Backend() != "memory" {
				t.Fatalf("backend: got %q", l.Backend())
			}
		})
	}
}

func TestRedisLimiterWindowKeysExpire(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	l, ok := NewRateLimiter(config.Config{RedisURL: url, RateLimitPerMin: 2}).(*RedisLimiter)
	if !ok {
		t.Fatal("expected redis backend")
	}
	defer l.client.Close()
	fixed := time.Now()
	l.now = func() time.Time { return fixed }
	ctx := context.Background()
	client := "test-" + uuid.NewString()
	key := l.windowKey(client)
	defer l.client.Del(ctx, key)

	if !l.Allow(ctx, client) || !l.Allow(ctx, client) {
		t.Fatal("first two requests should pass")
	}
	if l.Allow(ctx, client) {
		t.Fatal("third request in window should be limited")
	}
	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		t.Fatal(err)
	}
	if ttl <= 0 || ttl > windowTTL {
		t.Fatalf("window key TTL: got %s", ttl)
	}
}
