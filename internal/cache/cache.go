package cache

import (
	"sync"
	"time"

	"github.com/matheuskafuri/hnbest/internal/story"
)

// DefaultTTL is how long a fetched story is trusted.
const DefaultTTL = 5 * time.Minute

// Cache maps story ids to their last fetched value. Freshness is checked
// lazily on lookup; stale entries stay in memory until overwritten.
type Cache struct {
	mu      sync.RWMutex
	entries map[int]Entry
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries: make(map[int]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached story for id if it exists and is still fresh.
// Missing and stale entries are both reported as absent.
func (c *Cache) Get(id int) (story.Story, bool) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok || !e.Fresh(c.now().UTC(), c.ttl) {
		return story.Story{}, false
	}
	return e.Story, true
}

// Put stores s under id, replacing any previous entry and resetting its
// freshness clock to fetchedAt.
func (c *Cache) Put(id int, s story.Story, fetchedAt time.Time) {
	c.mu.Lock()
	c.entries[id] = Entry{Story: s, FetchedAt: fetchedAt.UTC()}
	c.mu.Unlock()
}

// Len returns the number of entries held, fresh or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL returns the configured freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}
