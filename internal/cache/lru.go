// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"sync"
	"time"
)

// EvictReason says why an entry left the cache.
type EvictReason int

const (
	// EvictCapacity means the entry was the least recently used when the
	// cache overflowed.
	EvictCapacity EvictReason = iota
	// EvictExpired means the entry sat idle longer than the TTL.
	EvictExpired
	// EvictRemoved means Remove or Purge dropped the entry.
	EvictRemoved
)

// String returns a metric-friendly name.
func (r EvictReason) String() string {
	switch r {
	case EvictCapacity:
		return "capacity"
	case EvictExpired:
		return "expired"
	case EvictRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// EvictFunc is called for every entry that leaves the cache. It runs after
// the cache lock is released and may call back into the cache.
type EvictFunc[V any] func(key string, value V, reason EvictReason)

// lruEntry represents an entry in the LRU cache with TTL support.
type lruEntry[V any] struct {
	key       string
	value     V
	prev      *lruEntry[V]
	next      *lruEntry[V]
	expiresAt time.Time
}

type eviction[V any] struct {
	key    string
	value  V
	reason EvictReason
}

// LRU is a thread-safe Least Recently Used cache with an idle TTL.
//
// Every Get refreshes the entry's expiry, so the TTL bounds idle time rather
// than total lifetime. Expired entries are dropped lazily on access and in
// bulk by CleanupExpired.
//
// The implementation uses a doubly-linked list for ordering and a hashmap
// for O(1) lookups.
type LRU[V any] struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	onEvict  EvictFunc[V]
	now      func() time.Time

	items map[string]*lruEntry[V]

	// head.next is the most recently used, tail.prev is the least recently used
	head *lruEntry[V]
	tail *lruEntry[V]

	hits   int64
	misses int64
}

// NewLRU creates a cache holding at most capacity entries, each expiring
// after ttl without access. A zero ttl disables expiry.
func NewLRU[V any](capacity int, ttl time.Duration, onEvict EvictFunc[V]) *LRU[V] {
	if capacity <= 0 {
		capacity = 10000
	}

	c := &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		onEvict:  onEvict,
		now:      time.Now,
		items:    make(map[string]*lruEntry[V], capacity),
		head:     &lruEntry[V]{},
		tail:     &lruEntry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	var evicted []eviction[V]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	if c.expiredLocked(entry) {
		evicted = append(evicted, c.removeLocked(entry, EvictExpired))
		c.misses++
		var zero V
		return zero, false
	}

	c.touchLocked(entry)
	c.hits++
	return entry.value, true
}

// GetOrAdd returns the live value for key, creating it with create when it
// is missing or expired. create runs under the cache lock and must not call
// back into the cache. The boolean reports whether the value was created.
func (c *LRU[V]) GetOrAdd(key string, create func() V) (V, bool) {
	var evicted []eviction[V]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		if !c.expiredLocked(entry) {
			c.touchLocked(entry)
			c.hits++
			return entry.value, false
		}
		evicted = append(evicted, c.removeLocked(entry, EvictExpired))
	}
	c.misses++

	value := create()
	evicted = append(evicted, c.insertLocked(key, value)...)
	return value, true
}

// Add inserts or replaces the value for key. A replaced value is not passed
// to the eviction callback.
func (c *LRU[V]) Add(key string, value V) {
	var evicted []eviction[V]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		entry.value = value
		c.touchLocked(entry)
		return
	}
	evicted = c.insertLocked(key, value)
}

// Peek returns the value without updating recency or expiry.
func (c *LRU[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok && !c.expiredLocked(entry) {
		return entry.value, true
	}
	var zero V
	return zero, false
}

// Remove drops key and reports whether it was present.
func (c *LRU[V]) Remove(key string) bool {
	var evicted []eviction[V]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		return false
	}
	evicted = append(evicted, c.removeLocked(entry, EvictRemoved))
	return true
}

// Purge drops every entry, running the eviction callback for each.
func (c *LRU[V]) Purge() {
	var evicted []eviction[V]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	for entry := c.tail.prev; entry != c.head; {
		prev := entry.prev
		evicted = append(evicted, c.removeLocked(entry, EvictRemoved))
		entry = prev
	}
}

// CleanupExpired removes all expired entries and returns how many it removed.
func (c *LRU[V]) CleanupExpired() int {
	var evicted []eviction[V]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Walk from tail (oldest) to head (newest)
	for entry := c.tail.prev; entry != c.head; {
		prev := entry.prev
		if c.expiredLocked(entry) {
			evicted = append(evicted, c.removeLocked(entry, EvictExpired))
		}
		entry = prev
	}
	return len(evicted)
}

// Keys returns the live keys, most recently used first.
func (c *LRU[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for entry := c.head.next; entry != c.tail; entry = entry.next {
		if !c.expiredLocked(entry) {
			keys = append(keys, entry.key)
		}
	}
	return keys
}

// Len returns the current number of entries, expired ones included until
// they are cleaned up.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns cache hit/miss statistics.
func (c *LRU[V]) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

// Internal methods (must be called with lock held)

func (c *LRU[V]) expiredLocked(entry *lruEntry[V]) bool {
	return c.ttl > 0 && c.now().After(entry.expiresAt)
}

func (c *LRU[V]) touchLocked(entry *lruEntry[V]) {
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

func (c *LRU[V]) insertLocked(key string, value V) []eviction[V] {
	entry := &lruEntry[V]{key: key, value: value}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.addToFront(entry)
	c.items[key] = entry

	var evicted []eviction[V]
	for len(c.items) > c.capacity {
		oldest := c.tail.prev
		if oldest == c.head {
			break
		}
		evicted = append(evicted, c.removeLocked(oldest, EvictCapacity))
	}
	return evicted
}

// addToFront adds an entry to the front of the list (most recently used).
func (c *LRU[V]) addToFront(entry *lruEntry[V]) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *LRU[V]) removeLocked(entry *lruEntry[V], reason EvictReason) eviction[V] {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
	return eviction[V]{key: entry.key, value: entry.value, reason: reason}
}

func (c *LRU[V]) notify(evicted []eviction[V]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range evicted {
		c.onEvict(e.key, e.value, e.reason)
	}
}
