// Package routecache provides a bounded LRU cache of successful route searches.
package routecache

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/vanshika/starroute/internal/domain"
	"github.com/vanshika/starroute/internal/metrics"
)

// DefaultCapacity is used when a cache is created with a non-positive capacity.
const DefaultCapacity = 50

// Cache is a thread-safe least-recently-used cache from query keys to
// successful search results. One mutex guards the underlying lru.Cache, which
// is not safe for concurrent use, and the hit and miss counters.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  *lru.Cache
	hits     uint64
	misses   uint64

	logger  *slog.Logger
	metrics *metrics.Routing
}

// Option customizes a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for eviction and clear events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics exports cache activity to the given collectors.
func WithMetrics(m *metrics.Routing) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// New creates a cache holding at most capacity entries.
func New(capacity int, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{
		capacity: capacity,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = c.newLRU()
	return c
}

func (c *Cache) newLRU() *lru.Cache {
	entries := lru.New(c.capacity)
	entries.OnEvicted = c.evicted
	return entries
}

// evicted runs inside Put with c.mu held.
func (c *Cache) evicted(key lru.Key, _ any) {
	c.metrics.CacheEviction()
	c.logger.Debug("evicted route cache entry", "key", key.(Key).String())
}

// Get returns the cached result for key and marks it most recently used.
func (c *Cache) Get(key Key) (domain.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.entries.Get(key)
	c.metrics.CacheLookup(ok)
	if !ok {
		c.misses++
		return domain.SearchResult{}, false
	}
	c.hits++
	return value.(domain.SearchResult), true
}

// Put stores a successful result. Failed results are ignored. When the cache
// is full the least recently used entry is evicted.
func (c *Cache) Put(key Key, result domain.SearchResult) {
	if !result.Success {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Add(key, result)
	c.metrics.CacheSize(c.entries.Len())
}

// Clear removes every entry. Hit and miss counters are kept and no eviction
// is reported.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.entries.Len()
	c.entries = c.newLRU()
	c.metrics.CacheSize(0)
	c.logger.Info("route cache cleared", "removed", n)
}

// ResetStatistics zeroes the hit and miss counters. Entries are kept.
func (c *Cache) ResetStatistics() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = 0
	c.misses = 0
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Capacity returns the maximum number of entries.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Contains reports whether key is cached without touching the hit and miss
// counters. A present entry becomes the most recently used.
func (c *Cache) Contains(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries.Get(key)
	return ok
}

// Stats is a point-in-time snapshot of cache usage.
type Stats struct {
	Size     int
	Capacity int
	Hits     uint64
	Misses   uint64
}

// HitRate returns hits as a percentage of all lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) * 100 / float64(total)
}

func (s Stats) String() string {
	return fmt.Sprintf("RouteCache[size=%d, hits=%d, misses=%d, hitRate=%.1f%%]", s.Size, s.Hits, s.Misses, s.HitRate())
}

// Statistics returns a snapshot of size and hit/miss counters.
func (c *Cache) Statistics() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:     c.entries.Len(),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}
