// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/storage"
)

func newTestManager(t *testing.T, cfg ManagerConfig) (*Manager, *storage.MemoryBackend, *testClock) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	clock := &testClock{now: time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)}
	cfg.Engine = testOptions(clock)
	return NewManager(backend, nil, cfg, zerolog.Nop()), backend, clock
}

func TestManager_GetReturnsSameEngine(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestManager(t, ManagerConfig{})
	a := m.Get("visitor-a")
	if m.Get("visitor-a") != a {
		t.Error("Get() returned a different engine for the same visitor")
	}
	if m.Get("visitor-b") == a {
		t.Error("Get() shared an engine between visitors")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if _, ok := m.Peek("visitor-c"); ok {
		t.Error("Peek() created an engine")
	}
}

func TestManager_CapacityEvictionEndsSession(t *testing.T) {
	t.Parallel()

	m, backend, clock := newTestManager(t, ManagerConfig{MaxVisitors: 2})
	ctx := context.Background()

	a := m.Get("visitor-a")
	id := a.StartReading(ctx, "post-1")
	a.UpdateReadingProgress(ctx, 90)

	m.Get("visitor-b")
	m.Get("visitor-c")

	if _, ok := m.Peek("visitor-a"); ok {
		t.Fatal("least recently used engine was not evicted")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	fresh := New(backend, "visitor-a", nil, testOptions(clock), zerolog.Nop())
	s, ok := fresh.Snapshot(ctx).Sessions[id]
	if !ok || !s.Ended() || !s.Completed {
		t.Errorf("evicted session = %+v, %v; want ended and completed", s, ok)
	}
	if !fresh.GetPreferences(ctx).HasRead("post-1") {
		t.Error("evicted session missing from reading history")
	}
}

func TestManager_EvictAndClose(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestManager(t, ManagerConfig{})
	ctx := context.Background()

	a := m.Get("visitor-a")
	a.StartReading(ctx, "post-1")
	b := m.Get("visitor-b")
	b.StartReading(ctx, "post-2")

	if !m.Evict("visitor-a") {
		t.Error("Evict() = false for a live engine")
	}
	if m.Evict("visitor-a") {
		t.Error("Evict() = true for a missing engine")
	}
	if _, ok := a.CurrentSession(ctx); ok {
		t.Error("evicted engine still has an active session")
	}

	m.Close()
	if m.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", m.Len())
	}
	if _, ok := b.CurrentSession(ctx); ok {
		t.Error("Close() left a session active")
	}
}

func TestManager_StaleEngineAfterEviction(t *testing.T) {
	t.Parallel()

	m, backend, clock := newTestManager(t, ManagerConfig{})
	ctx := context.Background()

	stale := m.Get("visitor-a")
	m.Evict("visitor-a")

	if id := stale.StartReading(ctx, "post-1"); id != "" {
		t.Fatalf("StartReading() on evicted engine = %q, want empty", id)
	}

	fresh := m.Get("visitor-a")
	if fresh == stale || fresh.Closed() {
		t.Fatal("Get() returned the evicted engine")
	}
	id := fresh.StartReading(ctx, "post-1")
	if id == "" {
		t.Fatal("StartReading() on fresh engine = empty")
	}
	m.Close()

	reloaded := New(backend, "visitor-a", nil, testOptions(clock), zerolog.Nop())
	sessions := reloaded.Snapshot(ctx).Sessions
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions))
	}
	if !sessions[id].Ended() {
		t.Error("session left open after manager close")
	}
}

func TestManager_Sweep(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestManager(t, ManagerConfig{IdleTTL: 10 * time.Millisecond})
	m.Get("visitor-a")
	m.Get("visitor-b")

	time.Sleep(50 * time.Millisecond)
	if n := m.Sweep(); n != 2 {
		t.Errorf("Sweep() = %d, want 2", n)
	}
	if m.Len() != 0 {
		t.Errorf("Len() after Sweep = %d, want 0", m.Len())
	}
}

func TestManager_InvalidateAllReloads(t *testing.T) {
	t.Parallel()

	m, backend, clock := newTestManager(t, ManagerConfig{})
	ctx := context.Background()

	e := m.Get("visitor-a")
	e.ToggleBookmark(ctx, "post-1")

	other := New(backend, "visitor-a", nil, testOptions(clock), zerolog.Nop())
	other.ToggleBookmark(ctx, "post-2")

	if e.IsBookmarked(ctx, "post-2") {
		t.Fatal("cached engine saw an external write before invalidation")
	}
	m.InvalidateAll()
	if !e.IsBookmarked(ctx, "post-2") {
		t.Error("InvalidateAll() did not reload preferences")
	}
}
