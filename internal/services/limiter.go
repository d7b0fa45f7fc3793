package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"spotprice/backend-go/internal/config"
)

const windowTTL = 2 * time.Minute

// RateLimiter counts requests per client in fixed one-minute windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
	Backend() string
}

type RedisLimiter struct {
	client *redis.Client
	perMin int
	now    func() time.Time
}

type MemoryLimiter struct {
	mu          sync.Mutex
	perMin      int
	buckets     map[string]*bucket
	lastCleanup time.Time
	now         func() time.Time
}

type bucket struct {
	count int
	reset time.Time
}

// NewRateLimiter uses Redis when REDIS_URL is set and answers a ping, so limits
// hold across replicas, and falls back to process memory otherwise.
func NewRateLimiter(cfg config.Config) RateLimiter {
	perMin := cfg.RateLimitPerMin
	if perMin <= 0 {
		perMin = 120
	}
	if cfg.RedisURL == "" {
		return NewMemoryLimiter(perMin)
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("rate limiter: invalid REDIS_URL, using memory: %v", err)
		return NewMemoryLimiter(perMin)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("rate limiter: redis unreachable, using memory: %v", err)
		_ = client.Close()
		return NewMemoryLimiter(perMin)
	}
	return &RedisLimiter{client: client, perMin: perMin, now: time.Now}
}

func NewMemoryLimiter(perMin int) *MemoryLimiter {
	return &MemoryLimiter{perMin: perMin, buckets: make(map[string]*bucket), now: time.Now}
}

func (r *RedisLimiter) Backend() string { return "redis" }

// Allow fails open when Redis errors so an outage does not block lookups.
func (r *RedisLimiter) Allow(ctx context.Context, key string) bool {
	k := r.windowKey(key)
	// Every window key gets its TTL in the same transaction as its first INCR.
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, windowTTL)
		incr = pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		log.Printf("rate limiter: redis incr: %v", err)
		return true
	}
	return incr.Val() <= int64(r.perMin)
}

func (r *RedisLimiter) windowKey(key string) string {
	return fmt.Sprintf("ratelimit:v1:%s:%d", key, r.now().Unix()/60)
}

func (m *MemoryLimiter) Backend() string { return "memory" }

func (m *MemoryLimiter) Allow(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.lastCleanup.IsZero() || now.Sub(m.lastCleanup) > time.Minute {
		for k, b := range m.buckets {
			if now.After(b.reset) {
				delete(m.buckets, k)
			}
		}
		m.lastCleanup = now
	}

	b, ok := m.buckets[key]
	if !ok || now.After(b.reset) {
		m.buckets[key] = &bucket{count: 1, reset: now.Add(time.Minute)}
		return true
	}
	if b.count >= m.perMin {
		return false
	}
	b.count++
	return true
}
