package foodlookup

import (
	"sync"
	"time"
)

// cacheEntry holds one cached lookup. A nil product caches a not-found
// answer.
type cacheEntry struct {
	product   *Product
	expiresAt time.Time
}

// ttlCache is a small in-memory cache with per-entry expiry. Expired
// entries are dropped lazily on read and opportunistically on write.
type ttlCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *ttlCache) get(key string) (*Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.product, true
}

func (c *ttlCache) put(key string, product *Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}

	c.entries[key] = cacheEntry{
		product:   product,
		expiresAt: now.Add(c.ttl),
	}
}
