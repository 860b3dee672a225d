package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, cfg), mr
}

func TestLimiterBudget(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxFailures: 3, Cooldown: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.Check(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if err := l.RecordFailure(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	if err := l.RecordFailure(ctx, "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("fourth failure = %v, want ErrRateLimited", err)
	}
	if err := l.Check(ctx, "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("check after exhaustion = %v, want ErrRateLimited", err)
	}

	// A different IP has its own budget.
	if err := l.Check(ctx, "10.0.0.2"); err != nil {
		t.Fatalf("other ip check: %v", err)
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	l, mr := newTestLimiter(t, Config{MaxFailures: 1, Cooldown: time.Minute})
	ctx := context.Background()

	_ = l.RecordFailure(ctx, "10.0.0.1")
	if err := l.RecordFailure(ctx, "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("second failure = %v, want ErrRateLimited", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := l.Check(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("check after window: %v", err)
	}
}

func TestLimiterReset(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxFailures: 1, Cooldown: time.Minute})
	ctx := context.Background()

	_ = l.RecordFailure(ctx, "10.0.0.1")
	_ = l.RecordFailure(ctx, "10.0.0.1")
	if err := l.Reset(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := l.Check(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("check after reset: %v", err)
	}
}

func TestLimiterEmptyIP(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxFailures: 1, Cooldown: time.Minute})
	ctx := context.Background()

	if err := l.Check(ctx, ""); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := l.RecordFailure(ctx, ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Reset(ctx, ""); err != nil {
		t.Fatalf("reset: %v", err)
	}
}

func TestLimiterRedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := New(client, Config{MaxFailures: 1, Cooldown: time.Minute})
	mr.Close()

	if err := l.Check(context.Background(), "10.0.0.1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("check = %v, want ErrRedisUnavailable", err)
	}
	if err := l.RecordFailure(context.Background(), "10.0.0.1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("record = %v, want ErrRedisUnavailable", err)
	}
}
