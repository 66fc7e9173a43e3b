// Package ttlcache provides a process-wide key/value cache whose entries
// expire after a fixed time-to-live. It backs the metadata fetch and
// corroboration lookups so repeated queries within the TTL window do not
// re-issue external calls.
package ttlcache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

type call[V any] struct {
	done  chan struct{}
	value V
}

// Cache is a mutex-guarded map with per-entry expiry. Concurrent lookups of
// the same absent key through GetOrCompute share a single computation.
type Cache[K comparable, V any] struct {
	ttl time.Duration

	mu       sync.Mutex
	entries  map[K]entry[V]
	inflight map[K]*call[V]

	// now is swappable for tests.
	now func() time.Time
}

// New creates a cache whose entries are treated as absent ttl after insertion.
func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:      ttl,
		entries:  make(map[K]entry[V]),
		inflight: make(map[K]*call[V]),
		now:      time.Now,
	}
}

// Get returns the live value for key, if any.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok || c.now().After(ent.expires) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return ent.value, true
}

// Set stores value under key with a fresh TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expires: c.now().Add(c.ttl)}
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. Callers racing on the same absent key wait for the first
// computation instead of issuing their own.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() V) V {
	c.mu.Lock()
	if ent, ok := c.entries[key]; ok && !c.now().After(ent.expires) {
		c.mu.Unlock()
		return ent.value
	}
	if pending, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-pending.done
		return pending.value
	}
	pending := &call[V]{done: make(chan struct{})}
	c.inflight[key] = pending
	c.mu.Unlock()

	pending.value = compute()
	close(pending.done)

	c.mu.Lock()
	c.entries[key] = entry[V]{value: pending.value, expires: c.now().Add(c.ttl)}
	delete(c.inflight, key)
	c.mu.Unlock()

	return pending.value
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]entry[V])
}
