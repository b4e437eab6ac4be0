package generic

import "sync"

// CacheKey scopes a cached value to a company and a window.
type CacheKey struct {
	CompanyID CompanyID
	Start     Week
	WeekCount int
}

// KeyFor builds the cache key for a company window.
func KeyFor(companyID CompanyID, w Window) CacheKey {
	return CacheKey{CompanyID: companyID, Start: w.Start, WeekCount: w.WeekCount}
}

// Generation identifies the state of a company's cache slot. A value
// computed under one generation must not be stored once it has moved on.
type Generation struct {
	epoch   uint64
	company uint64
}

// Cache holds computed aggregates per (company, window). Invalidation drops
// every window of a company at once; there is no partial invalidation.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[CacheKey]V
	gens    map[CompanyID]uint64
	epoch   uint64
}

func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[CacheKey]V), gens: make(map[CompanyID]uint64)}
}

// Generation returns the current generation of companyID. Capture it before
// reading the rows a value is computed from.
func (c *Cache[V]) Generation(companyID CompanyID) Generation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Generation{epoch: c.epoch, company: c.gens[companyID]}
}

func (c *Cache[V]) Get(key CacheKey) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache[V]) Put(key CacheKey, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// PutIfCurrent stores v only if the key's company is still at gen. It
// reports whether the value was stored.
func (c *Cache[V]) PutIfCurrent(key CacheKey, v V, gen Generation) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen.epoch != c.epoch || gen.company != c.gens[key.CompanyID] {
		return false
	}
	c.entries[key] = v
	return true
}

// Invalidate removes every entry for companyID and returns how many went.
func (c *Cache[V]) Invalidate(companyID CompanyID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[companyID]++
	n := 0
	for k := range c.entries {
		if k.CompanyID == companyID {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Clear empties the cache.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[CacheKey]V)
	c.epoch++
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune removes every entry for which stale returns true.
func (c *Cache[V]) Prune(stale func(CacheKey) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if stale(k) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}
