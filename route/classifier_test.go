package route

import (
	"fmt"
	"testing"
)

func TestClassifyDefaultMatrixPublicAPI(t *testing.T) {
	c := NewClassifier(DefaultMatrix(), nil)

	// Every concrete publicApi route must classify as publicApi.
	paths := []string{
		"/api/auth/me",
		"/api/auth/login",
		"/api/posts",
		"/api/posts/tax-reform-2026",
		"/api/categories",
		"/api/tags",
		"/api/comments",
		"/api/search",
		"/api/contact",
	}
	for _, path := range paths {
		category, ok := c.Classify(path)
		if !ok || category != CategoryPublicAPI {
			t.Fatalf("Classify(%q) = (%v, %v), want publicApi", path, category, ok)
		}
	}
}

func TestClassifyDefaultMatrix(t *testing.T) {
	c := NewClassifier(DefaultMatrix(), nil)

	tests := []struct {
		path     string
		want     Category
		wantOK   bool
	}{
		{path: "/dashboard", want: CategoryAdminOnly, wantOK: true},
		{path: "/dashboard/posts/new", want: CategoryAdminOnly, wantOK: true},
		{path: "/api/admin/posts", want: CategoryAdminOnly, wantOK: true},
		{path: "/api/upload", want: CategoryAdminOnly, wantOK: true},
		{path: "/profile", want: CategoryProtected, wantOK: true},
		{path: "/profile/avatar", want: CategoryProtected, wantOK: true},
		{path: "/api/profile", want: CategoryProtected, wantOK: true},
		{path: "/auth/login", want: CategoryAuthRestricted, wantOK: true},
		{path: "/auth/register", want: CategoryAuthRestricted, wantOK: true},
		{path: "/", want: CategoryPublicContent, wantOK: true},
		{path: "/blog", want: CategoryPublicContent, wantOK: true},
		{path: "/blog/tax-reform-2026", want: CategoryPublicContent, wantOK: true},
		{path: "/blog/category/fiscal", want: CategoryPublicContent, wantOK: true},
		{path: "/services/consulting", want: CategoryPublicContent, wantOK: true},
		{path: "/api/unknown/thing", want: 0, wantOK: false},
		{path: "/no-such-page", want: 0, wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			category, ok := c.Classify(tc.path)
			if ok != tc.wantOK || category != tc.want {
				t.Fatalf("Classify(%q) = (%v, %v), want (%v, %v)", tc.path, category, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// A path matched by several categories takes the first in matrix order.
	m := Matrix{
		PublicAPI:     []string{"/api/overlap"},
		AdminOnly:     []string{"/api/overlap", "/page/overlap"},
		Protected:     []string{"/page/overlap"},
		PublicContent: []string{"/page/overlap"},
	}
	c := NewClassifier(m, nil)

	if category, _ := c.Classify("/api/overlap"); category != CategoryPublicAPI {
		t.Fatalf("overlap api path = %v, want publicApi", category)
	}
	if category, _ := c.Classify("/page/overlap"); category != CategoryAdminOnly {
		t.Fatalf("overlap page path = %v, want adminOnly", category)
	}
}

func TestClassifyMatchKinds(t *testing.T) {
	m := Matrix{
		Protected: []string{
			"/exact",
			"/wild/*",
			"/posts/[id]/comments",
			"/colon/:param",
		},
	}
	c := NewClassifier(m, nil)

	tests := []struct {
		path   string
		wantOK bool
	}{
		{path: "/exact", wantOK: true},
		{path: "/exact/sub", wantOK: true}, // prefix fallback
		{path: "/exactly", wantOK: false},
		{path: "/wild", wantOK: true},
		{path: "/wild/anything/deep", wantOK: true},
		{path: "/wilderness", wantOK: false},
		{path: "/posts/42/comments", wantOK: true},
		{path: "/posts/42/comments/7", wantOK: false},
		{path: "/posts//comments", wantOK: false},
		{path: "/colon/value", wantOK: true},
		{path: "/colon/a/b", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			if _, ok := c.Classify(tc.path); ok != tc.wantOK {
				t.Fatalf("Classify(%q) ok = %v, want %v", tc.path, ok, tc.wantOK)
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	c := NewClassifier(DefaultMatrix(), nil)

	paths := []string{"/dashboard", "/blog/some-post", "/api/unknown", "/auth/login"}
	for _, path := range paths {
		first, firstOK := c.Classify(path)
		second, secondOK := c.Classify(path)
		if first != second || firstOK != secondOK {
			t.Fatalf("Classify(%q) not idempotent: (%v,%v) then (%v,%v)", path, first, firstOK, second, secondOK)
		}
	}

	stats := c.Cache().Stats()
	if stats.Hits != uint64(len(paths)) {
		t.Fatalf("cache hits = %d, want %d", stats.Hits, len(paths))
	}
}

func TestClassifyNegativeResultsAreCached(t *testing.T) {
	c := NewClassifier(DefaultMatrix(), nil)

	if _, ok := c.Classify("/api/unknown/thing"); ok {
		t.Fatal("expected unclassified path")
	}
	if _, ok := c.Classify("/api/unknown/thing"); ok {
		t.Fatal("expected unclassified path on cache hit")
	}
	if stats := c.Cache().Stats(); stats.Hits != 1 {
		t.Fatalf("cache hits = %d, want 1", stats.Hits)
	}
}

func TestClassifyCacheBound(t *testing.T) {
	cache := NewCache(DefaultCacheCapacity, DefaultCacheTTL)
	c := NewClassifier(DefaultMatrix(), cache)

	for i := 0; i < DefaultCacheCapacity+100; i++ {
		c.Classify(fmt.Sprintf("/blog/post-%d", i))
	}

	if got := cache.Len(); got > DefaultCacheCapacity {
		t.Fatalf("cache length = %d, want <= %d", got, DefaultCacheCapacity)
	}
	if stats := cache.Stats(); stats.Evictions != 100 {
		t.Fatalf("evictions = %d, want 100", stats.Evictions)
	}
}

func BenchmarkClassifyCacheHit(b *testing.B) {
	c := NewClassifier(DefaultMatrix(), nil)
	c.Classify("/blog/some-post")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Classify("/blog/some-post")
	}
}

func BenchmarkClassifyCacheMiss(b *testing.B) {
	c := NewClassifier(DefaultMatrix(), nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Cache().Reset()
		c.Classify("/dashboard/posts/reorder")
	}
}
