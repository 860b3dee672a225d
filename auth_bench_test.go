package webguard

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newBenchmarkEngine(b *testing.B, mode ValidationMode) (*Engine, func()) {
	b.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		b.Fatalf("miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := DefaultConfig()
	cfg.JWT.Secret = testSecret
	cfg.ValidationMode = mode
	if mode == ModeStrict {
		cfg.Revocation.Enabled = true
	}

	engine, err := New().WithConfig(cfg).WithRedis(client).Build()
	if err != nil {
		b.Fatalf("build: %v", err)
	}
	cleanup := func() {
		engine.Close()
		_ = client.Close()
		mr.Close()
	}
	return engine, cleanup
}

func BenchmarkAuthorizeJWTOnly(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b, ModeJWTOnly)
	defer cleanup()

	token, err := engine.IssueToken("user-1", "user@example.com", RoleUser)
	if err != nil {
		b.Fatalf("issue: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if result := engine.Authorize(context.Background(), token, LevelUser); !result.Authorized {
			b.Fatalf("authorize failed: %s", result.Code)
		}
	}
}

func BenchmarkAuthorizeStrict(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b, ModeStrict)
	defer cleanup()

	token, err := engine.IssueToken("user-1", "user@example.com", RoleUser)
	if err != nil {
		b.Fatalf("issue: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if result := engine.Authorize(context.Background(), token, LevelUser); !result.Authorized {
			b.Fatalf("authorize failed: %s", result.Code)
		}
	}
}

func BenchmarkAuthorizeAdminDenied(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b, ModeJWTOnly)
	defer cleanup()

	token, err := engine.IssueToken("user-1", "user@example.com", RoleUser)
	if err != nil {
		b.Fatalf("issue: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if result := engine.Authorize(context.Background(), token, LevelAdmin); result.Authorized {
			b.Fatal("USER role authorized at admin level")
		}
	}
}

func BenchmarkAuthorizeInvalidToken(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b, ModeJWTOnly)
	defer cleanup()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if result := engine.Authorize(context.Background(), "not-a-jwt", LevelUser); result.Authorized {
			b.Fatal("garbage token authorized")
		}
	}
}
