// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type evictLog struct {
	mu      sync.Mutex
	keys    []string
	reasons []EvictReason
}

func (l *evictLog) record(key string, _ int, reason EvictReason) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	l.reasons = append(l.reasons, reason)
}

func (l *evictLog) snapshot() ([]string, []EvictReason) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.keys...), append([]EvictReason(nil), l.reasons...)
}

// manualClock lets tests move time forward.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func newTestLRU(capacity int, ttl time.Duration) (*LRU[int], *evictLog, *manualClock) {
	log := &evictLog{}
	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRU[int](capacity, ttl, log.record)
	c.now = clock.Now
	return c, log, clock
}

func TestLRU_BasicOperations(t *testing.T) {
	c, _, _ := newTestLRU(10, 0)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}

	c.Add("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	c.Add("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) after replace = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	hits, misses, size := c.Stats()
	if hits != 2 || misses != 1 || size != 1 {
		t.Errorf("Stats() = %d, %d, %d; want 2, 1, 1", hits, misses, size)
	}
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c, log, _ := newTestLRU(3, 0)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	c.Get("a") // b is now the oldest
	c.Add("d", 4)

	if _, ok := c.Peek("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Peek(k); !ok {
			t.Errorf("%s missing after eviction", k)
		}
	}

	keys, reasons := log.snapshot()
	if len(keys) != 1 || keys[0] != "b" || reasons[0] != EvictCapacity {
		t.Errorf("evictions = %v %v, want [b] [capacity]", keys, reasons)
	}
}

func TestLRU_IdleExpiry(t *testing.T) {
	c, log, clock := newTestLRU(10, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)

	clock.Advance(40 * time.Second)
	c.Get("a") // refreshes a only
	clock.Advance(40 * time.Second)

	if _, ok := c.Get("a"); !ok {
		t.Error("a expired despite recent access")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b still present after idle TTL")
	}

	keys, reasons := log.snapshot()
	if len(keys) != 1 || keys[0] != "b" || reasons[0] != EvictExpired {
		t.Errorf("evictions = %v %v, want [b] [expired]", keys, reasons)
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	c, log, clock := newTestLRU(10, time.Minute)

	for i := 0; i < 5; i++ {
		c.Add(fmt.Sprintf("k%d", i), i)
	}
	clock.Advance(30 * time.Second)
	c.Add("fresh", 99)
	clock.Advance(45 * time.Second)

	if removed := c.CleanupExpired(); removed != 5 {
		t.Errorf("CleanupExpired() = %d, want 5", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if keys, _ := log.snapshot(); len(keys) != 5 {
		t.Errorf("eviction callbacks = %d, want 5", len(keys))
	}
}

func TestLRU_GetOrAdd(t *testing.T) {
	c, _, clock := newTestLRU(10, time.Minute)

	calls := 0
	create := func() int { calls++; return calls }

	v, created := c.GetOrAdd("a", create)
	if !created || v != 1 {
		t.Errorf("GetOrAdd() = %d, %v; want 1, true", v, created)
	}
	v, created = c.GetOrAdd("a", create)
	if created || v != 1 {
		t.Errorf("second GetOrAdd() = %d, %v; want 1, false", v, created)
	}

	clock.Advance(2 * time.Minute)
	v, created = c.GetOrAdd("a", create)
	if !created || v != 2 {
		t.Errorf("GetOrAdd() after expiry = %d, %v; want 2, true", v, created)
	}
}

func TestLRU_RemoveAndPurge(t *testing.T) {
	c, log, _ := newTestLRU(10, 0)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	if !c.Remove("a") {
		t.Error("Remove(a) = false")
	}
	if c.Remove("a") {
		t.Error("second Remove(a) = true")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}

	keys, reasons := log.snapshot()
	if len(keys) != 3 {
		t.Fatalf("evictions = %v, want 3", keys)
	}
	for _, r := range reasons {
		if r != EvictRemoved {
			t.Errorf("reason = %v, want removed", r)
		}
	}
}

func TestLRU_KeysOrder(t *testing.T) {
	c, _, _ := newTestLRU(10, 0)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	c.Get("a")

	got := c.Keys()
	want := []string{"a", "c", "b"}
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLRU_CallbackMayReenter(t *testing.T) {
	var c *LRU[int]
	c = NewLRU[int](1, 0, func(key string, _ int, _ EvictReason) {
		// Would deadlock if called under the lock.
		_ = c.Len()
	})

	c.Add("a", 1)
	c.Add("b", 2)
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int](100, time.Minute, nil)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g*500+i)%150)
				c.GetOrAdd(key, func() int { return i })
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d, exceeds capacity", c.Len())
	}
}

func TestEvictReason_String(t *testing.T) {
	for reason, want := range map[EvictReason]string{
		EvictCapacity:   "capacity",
		EvictExpired:    "expired",
		EvictRemoved:    "removed",
		EvictReason(42): "unknown",
	} {
		if got := reason.String(); got != want {
			t.Errorf("EvictReason(%d).String() = %q, want %q", int(reason), got, want)
		}
	}
}
