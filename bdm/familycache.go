package bdm

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// familyCache generalizes the Rust source's generic get/insert closure
// pair (BlockDataManager::get / BlockDataManager::insert) into a typed,
// two-tier (memory + durable-store) cache for one entity family: an
// in-memory map guarded by its own RWMutex, falling through to a loader on
// a miss. golang.org/x/sync/singleflight collapses concurrent cold-path
// loads of the same key into one durable-store read, a refinement the
// Rust source's parking_lot-based upgradable locks don't need but a plain
// RWMutex benefits from under concurrent readers.
type familyCache[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
	sf singleflight.Group
}

func newFamilyCache[K comparable, V any]() *familyCache[K, V] {
	return &familyCache[K, V]{m: make(map[K]V)}
}

// Peek returns the in-memory value for key without touching the durable
// store.
func (c *familyCache[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

// Insert records value for key in memory, used after a successful write
// to the durable store to keep the cache warm.
func (c *familyCache[K, V]) Insert(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

// Remove evicts key from memory only (the durable-store record, if any,
// is untouched).
func (c *familyCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

// Len reports the number of entries currently cached in memory.
func (c *familyCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Range calls fn for every in-memory entry, stopping early if fn returns
// false.
func (c *familyCache[K, V]) Range(fn func(K, V) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.m {
		if !fn(k, v) {
			return
		}
	}
}

// Get returns the cached value for key, falling through to load on a
// miss. load may return (zero, false, nil) to mean "not found anywhere" —
// callers should treat that as a nil result, never an error.
func (c *familyCache[K, V]) Get(sfKey string, key K, load func() (V, bool, error)) (V, bool, error) {
	if v, ok := c.Peek(key); ok {
		return v, true, nil
	}

	type result struct {
		v     V
		found bool
	}
	res, err, _ := c.sf.Do(sfKey, func() (interface{}, error) {
		if v, ok := c.Peek(key); ok {
			return result{v, true}, nil
		}
		v, found, err := load()
		if err != nil {
			return result{}, err
		}
		if found {
			c.Insert(key, v)
		}
		return result{v, found}, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	r := res.(result)
	return r.v, r.found, nil
}
