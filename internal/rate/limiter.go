package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds throttle tuning parameters.
type Config struct {
	MaxFailures int
	Cooldown    time.Duration
}

// Limiter enforces the per-IP invalid-token budget using Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// Check reports whether the client IP is within its failure budget.
// Returns [ErrRateLimited] when the budget is exhausted. An empty IP is
// never throttled (no key to count against).
func (l *Limiter) Check(ctx context.Context, ip string) error {
	if ip == "" {
		return nil
	}

	count, err := l.redis.Get(ctx, failureKey(ip)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count > int64(l.config.MaxFailures) {
		return ErrRateLimited
	}

	return nil
}

// RecordFailure counts one failed token verification for the client IP.
// Returns [ErrRateLimited] once the budget is exceeded.
func (l *Limiter) RecordFailure(ctx context.Context, ip string) error {
	if ip == "" {
		return nil
	}

	count, err := l.incrementWithTTL(ctx, failureKey(ip), l.config.Cooldown)
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxFailures) {
		return ErrRateLimited
	}

	return nil
}

// Reset clears the failure counter for the client IP. Called after a
// successful authorization.
func (l *Limiter) Reset(ctx context.Context, ip string) error {
	if ip == "" {
		return nil
	}

	if err := l.redis.Del(ctx, failureKey(ip)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}

func failureKey(ip string) string {
	return "wg:atf:" + ip
}
