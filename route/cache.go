package route

import (
	"container/list"
	"regexp"
	"sync"
	"time"
)

const (
	// DefaultCacheCapacity is an exported constant or variable used by the guard.
	DefaultCacheCapacity = 500
	// DefaultCacheTTL is an exported constant or variable used by the guard.
	DefaultCacheTTL = 5 * time.Minute
)

// CacheStats is a point-in-time snapshot of cache effectiveness counters.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Expired   uint64
}

type cacheEntry struct {
	path        string
	category    Category
	ok          bool
	storedAt    time.Time
	accessCount uint64
}

// Cache is the injectable classification cache: a bounded LRU with TTL
// expiry plus the memoization table for compiled dynamic-segment regexes.
// One instance is shared by all requests going through a Classifier; tests
// construct their own and reset it between cases.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*list.Element
	order    *list.List // front = most recently accessed
	regexes  map[string]*regexp.Regexp
	stats    CacheStats
	now      func() time.Time
}

// NewCache creates a classification cache with the given entry cap and TTL.
// Non-positive arguments fall back to the defaults (500 entries, 5 minutes).
//
// NewCache does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
		regexes:  make(map[string]*regexp.Regexp),
		now:      time.Now,
	}
}

// lookup returns the cached classification for path. The second return
// reports whether the path matched any category; the third whether a live
// cache entry existed at all.
func (c *Cache) lookup(path string) (Category, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.entries[path]
	if !found {
		c.stats.Misses++
		return 0, false, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.order.Remove(elem)
		delete(c.entries, path)
		c.stats.Expired++
		c.stats.Misses++
		return 0, false, false
	}

	entry.accessCount++
	c.order.MoveToFront(elem)
	c.stats.Hits++
	return entry.category, entry.ok, true
}

// store records a classification result, evicting the least-recently
// accessed entry when the cache is at capacity.
func (c *Cache) store(path string, category Category, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.entries[path]; found {
		entry := elem.Value.(*cacheEntry)
		entry.category = category
		entry.ok = ok
		entry.storedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).path)
			c.stats.Evictions++
		}
	}

	c.entries[path] = c.order.PushFront(&cacheEntry{
		path:     path,
		category: category,
		ok:       ok,
		storedAt: c.now(),
	})
}

// regex returns the compiled regex for a dynamic-segment pattern, compiling
// and memoizing it on first use.
func (c *Cache) regex(pattern string) (*regexp.Regexp, error) {
	c.mu.Lock()
	if re, found := c.regexes[pattern]; found {
		c.mu.Unlock()
		return re, nil
	}
	c.mu.Unlock()

	// Compile outside the lock; a concurrent duplicate compilation is
	// idempotent and only costs redundant work.
	re, err := regexp.Compile(dynamicPatternToRegex(pattern))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.regexes[pattern] = re
	c.mu.Unlock()
	return re, nil
}

// Len reports the number of live entries.
//
// Len does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the cache counters.
//
// Stats does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Reset drops all entries, memoized regexes, and counters. Intended for
// tests that share a classifier across cases.
//
// Reset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element, c.capacity)
	c.order.Init()
	c.regexes = make(map[string]*regexp.Regexp)
	c.stats = CacheStats{}
}
