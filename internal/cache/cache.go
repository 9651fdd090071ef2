// Package cache provides the time-bounded in-memory cache that sits
// between the aggregator and every upstream source, bounding request
// volume per source via fixed TTLs.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a keyed TTL store. Keys are request fingerprints (source +
// rounded location + parameters); values are normalized fetch results.
// There is no capacity bound: the key space is source × rounded
// location, which stays small at the deployment scale this targets.
type Cache struct {
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[string]entry
}

// New creates an empty cache using the given time source. Tests pass a
// fake clock to exercise expiry deterministically.
func New(clock clockwork.Clock) *Cache {
	return &Cache{
		clock:   clock,
		entries: make(map[string]entry),
	}
}

// Get returns the stored value only while the entry is unexpired.
// An expired entry behaves as absent and is dropped on read.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value with expiry now+ttl, unconditionally overwriting any
// existing entry for the key. Overlapping writes carry equally fresh
// data, so last-write-wins is fine.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
}

// Clear drops all entries. Called when the query location changes
// materially; eviction on location change is the caller's decision.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// Len returns the current entry count, expired entries included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
