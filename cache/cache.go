// Package cache provides a generic, thread-safe memoizing store with LRU
// eviction and an optional eviction callback.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// Store is a generic thread-safe memoizing key/value store.
// It uses Go generics (1.18+) for type safety without interface{} overhead.
//
// Lookups that miss can be computed through GetOrCompute, which guarantees a
// key is computed at most once even under contention.
type Store[K comparable, V any] struct {
	mu       sync.RWMutex
	items    map[K]*entry[K, V]
	inflight map[K]*call[V]
	order    *list.List
	capacity int
	onEvict  func(K, V)

	// Metrics (lock-free using atomics)
	hits   atomic.Uint64
	misses atomic.Uint64
	evicts atomic.Uint64
	sets   atomic.Uint64
}

// entry holds a cached value and its position in the LRU list.
type entry[K comparable, V any] struct {
	key     K
	value   V
	element *list.Element
}

// call tracks an in-flight computation so concurrent callers wait for it
// instead of recomputing.
type call[V any] struct {
	done  chan struct{}
	value V
}

// Option configures a Store.
type Option[K comparable, V any] func(*Store[K, V])

// WithOnEvict sets a callback invoked once per evicted entry.
// Failures inside the callback never propagate past the store boundary.
func WithOnEvict[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(s *Store[K, V]) {
		s.onEvict = fn
	}
}

// New creates a new Store with the specified capacity.
// When the store is full, the least recently used item is evicted.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) *Store[K, V] {
	if capacity <= 0 {
		capacity = 100
	}
	s := &Store[K, V]{
		items:    make(map[K]*entry[K, V], capacity),
		inflight: make(map[K]*call[V]),
		order:    list.New(),
		capacity: capacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves a value from the store.
// Returns the value and true if found, zero value and false otherwise.
// Accessing an item moves it to the front of the LRU list.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	e, ok := s.items[key]
	var value V
	if ok {
		// Copy while holding the lock; Set updates entries in place.
		value = e.value
	}
	s.mu.RUnlock()

	if !ok {
		s.misses.Add(1)
		return value, false
	}

	s.hits.Add(1)

	s.mu.Lock()
	s.order.MoveToFront(e.element)
	s.mu.Unlock()

	return value, true
}

// Set adds or updates a value in the store.
// If the store is at capacity, the least recently used item is evicted.
func (s *Store[K, V]) Set(key K, value V) {
	s.sets.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(key, value)
}

// setLocked inserts or updates an entry. Must be called with mu held.
func (s *Store[K, V]) setLocked(key K, value V) {
	if e, ok := s.items[key]; ok {
		e.value = value
		s.order.MoveToFront(e.element)
		return
	}

	if len(s.items) >= s.capacity {
		s.evictOldestLocked()
	}

	element := s.order.PushFront(key)
	s.items[key] = &entry[K, V]{
		key:     key,
		value:   value,
		element: element,
	}
}

// evictOldestLocked removes the least recently used item.
// Must be called with mu held.
func (s *Store[K, V]) evictOldestLocked() {
	oldest := s.order.Back()
	if oldest == nil {
		return
	}

	key := oldest.Value.(K)
	e := s.items[key]
	delete(s.items, key)
	s.order.Remove(oldest)
	s.evicts.Add(1)

	if s.onEvict != nil && e != nil {
		s.notifyEvict(e.key, e.value)
	}
}

// notifyEvict invokes the eviction callback, swallowing any panic.
// Cleanup errors must not cross the store boundary.
func (s *Store[K, V]) notifyEvict(key K, value V) {
	defer func() {
		_ = recover()
	}()
	s.onEvict(key, value)
}

// GetOrCompute returns the existing value for key if present.
// Otherwise it calls fn to compute the value, stores it, and returns it.
// fn runs at most once per key even when multiple goroutines miss
// concurrently; late arrivals block until the first computation finishes.
func (s *Store[K, V]) GetOrCompute(key K, fn func() V) V {
	s.mu.Lock()
	if e, ok := s.items[key]; ok {
		s.order.MoveToFront(e.element)
		v := e.value
		s.mu.Unlock()
		s.hits.Add(1)
		return v
	}
	if c, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		<-c.done
		return c.value
	}

	c := &call[V]{done: make(chan struct{})}
	s.inflight[key] = c
	s.mu.Unlock()
	s.misses.Add(1)

	c.value = fn()

	s.mu.Lock()
	s.setLocked(key, c.value)
	delete(s.inflight, key)
	s.mu.Unlock()
	s.sets.Add(1)

	close(c.done)
	return c.value
}

// Delete removes an item from the store without firing the eviction callback.
func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.items[key]; ok {
		delete(s.items, key)
		s.order.Remove(e.element)
	}
}

// Len returns the current number of items in the store.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear removes all items from the store.
func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[K]*entry[K, V], s.capacity)
	s.order.Init()
}

// Stats holds store statistics.
type Stats struct {
	Size     int
	Capacity int
	Hits     uint64
	Misses   uint64
	Evicts   uint64
	Sets     uint64
	HitRate  float64
}

// Stats returns store statistics.
func (s *Store[K, V]) Stats() Stats {
	s.mu.RLock()
	size := len(s.items)
	s.mu.RUnlock()

	hits := s.hits.Load()
	misses := s.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Size:     size,
		Capacity: s.capacity,
		Hits:     hits,
		Misses:   misses,
		Evicts:   s.evicts.Load(),
		Sets:     s.sets.Load(),
		HitRate:  hitRate,
	}
}

// Keys returns all keys in the store (in no particular order).
func (s *Store[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]K, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys
}

// Range calls fn for each item in the store.
// If fn returns false, iteration stops.
func (s *Store[K, V]) Range(fn func(key K, value V) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for k, e := range s.items {
		if !fn(k, e.value) {
			break
		}
	}
}
