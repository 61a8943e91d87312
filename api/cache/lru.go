/* lru.go
 * A bounded, thread-safe least-recently-used map used to keep hot parse results in process
 */

package cache

import (
	"container/list"
	"sync"
)

type lruItem[K comparable, V any] struct {
	key   K
	value V
}

// LRU holds at most capacity values, dropping the least recently read or written one when full
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	index    map[K]*list.Element
	order    *list.List
	hits     uint64
	misses   uint64
}

// NewLRU creates an LRU.
// Preconditions: capacity is positive
// Postconditions: returns an empty LRU, or panics on a non-positive capacity
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		panic("cache: LRU capacity must be positive")
	}
	return &LRU[K, V]{
		capacity: capacity,
		index:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the value stored under key and marks it most recently used
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.MoveToFront(elem)
	return elem.Value.(*lruItem[K, V]).value, true
}

// Add stores value under key, evicting the oldest entry when over capacity.
// It reports whether an entry was evicted.
func (c *LRU[K, V]) Add(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		elem.Value.(*lruItem[K, V]).value = value
		c.order.MoveToFront(elem)
		return false
	}

	c.index[key] = c.order.PushFront(&lruItem[K, V]{key: key, value: value})
	if c.order.Len() <= c.capacity {
		return false
	}

	oldest := c.order.Back()
	c.order.Remove(oldest)
	delete(c.index, oldest.Value.(*lruItem[K, V]).key)
	return true
}

// Len returns the number of stored entries
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns the hit and miss counts since creation or the last Purge
func (c *LRU[K, V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Purge drops every entry and resets the counters
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[K]*list.Element, c.capacity)
	c.order.Init()
	c.hits, c.misses = 0, 0
}
