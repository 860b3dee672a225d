package route

import (
	"fmt"
	"testing"
	"time"
)

func TestCacheLRUEviction(t *testing.T) {
	c := NewCache(3, time.Minute)

	c.store("/a", CategoryPublicContent, true)
	c.store("/b", CategoryPublicContent, true)
	c.store("/c", CategoryPublicContent, true)

	// Touch /a so /b becomes the least recently accessed.
	if _, _, cached := c.lookup("/a"); !cached {
		t.Fatal("expected /a to be cached")
	}

	c.store("/d", CategoryPublicContent, true)

	if _, _, cached := c.lookup("/b"); cached {
		t.Fatal("expected /b to be evicted")
	}
	if _, _, cached := c.lookup("/a"); !cached {
		t.Fatal("expected /a to survive eviction")
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("cache length = %d, want 3", got)
	}
	if stats := c.Stats(); stats.Evictions != 1 {
		t.Fatalf("evictions = %d, want 1", stats.Evictions)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewCache(10, 5*time.Minute)

	now := time.Now()
	c.now = func() time.Time { return now }

	c.store("/a", CategoryProtected, true)

	now = now.Add(4 * time.Minute)
	if _, _, cached := c.lookup("/a"); !cached {
		t.Fatal("expected live entry before TTL")
	}

	now = now.Add(2 * time.Minute)
	if _, _, cached := c.lookup("/a"); cached {
		t.Fatal("expected entry to expire after TTL")
	}
	if stats := c.Stats(); stats.Expired != 1 {
		t.Fatalf("expired = %d, want 1", stats.Expired)
	}
}

func TestCacheStoreRefreshesExisting(t *testing.T) {
	c := NewCache(2, time.Minute)

	c.store("/a", CategoryProtected, true)
	c.store("/b", CategoryProtected, true)
	// Re-storing /a must refresh it, not duplicate it.
	c.store("/a", CategoryAdminOnly, true)

	if got := c.Len(); got != 2 {
		t.Fatalf("cache length = %d, want 2", got)
	}
	category, ok, cached := c.lookup("/a")
	if !cached || !ok || category != CategoryAdminOnly {
		t.Fatalf("lookup(/a) = (%v, %v, %v), want refreshed adminOnly entry", category, ok, cached)
	}
}

func TestCacheRegexMemoization(t *testing.T) {
	c := NewCache(10, time.Minute)

	first, err := c.regex("/posts/[id]")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := c.regex("/posts/[id]")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if first != second {
		t.Fatal("expected memoized regex to be reused")
	}
	if !first.MatchString("/posts/42") {
		t.Fatal("expected /posts/42 to match")
	}
	if first.MatchString("/posts/42/extra") {
		t.Fatal("expected /posts/42/extra not to match")
	}
}

func TestCacheReset(t *testing.T) {
	c := NewCache(10, time.Minute)

	c.store("/a", CategoryProtected, true)
	if _, err := c.regex("/posts/[id]"); err != nil {
		t.Fatalf("compile: %v", err)
	}
	c.lookup("/a")

	c.Reset()

	if got := c.Len(); got != 0 {
		t.Fatalf("cache length after reset = %d, want 0", got)
	}
	if stats := c.Stats(); stats != (CacheStats{}) {
		t.Fatalf("stats after reset = %+v, want zero", stats)
	}
}

func TestCacheDefaults(t *testing.T) {
	c := NewCache(0, 0)
	if c.capacity != DefaultCacheCapacity {
		t.Fatalf("capacity = %d, want %d", c.capacity, DefaultCacheCapacity)
	}
	if c.ttl != DefaultCacheTTL {
		t.Fatalf("ttl = %v, want %v", c.ttl, DefaultCacheTTL)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache(50, time.Minute)

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				path := fmt.Sprintf("/p/%d", (g*200+i)%75)
				c.store(path, CategoryPublicContent, true)
				c.lookup(path)
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}

	if got := c.Len(); got > 50 {
		t.Fatalf("cache length = %d, want <= 50", got)
	}
}
