// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package tracker

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/storage"
	"github.com/tomtom215/folio/internal/storage/storagetest"
)

// fakeClock is advanced manually by tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingHistory captures AddToHistory calls.
type recordingHistory struct {
	mu  sync.Mutex
	ids []models.ContentID
}

func (h *recordingHistory) AddToHistory(_ context.Context, id models.ContentID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ids = append(h.ids, id)
}

func (h *recordingHistory) IDs() []models.ContentID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.ContentID(nil), h.ids...)
}

func newTestTracker(t *testing.T) (*Tracker, *storagetest.FlakyBackend, *recordingHistory, *fakeClock) {
	t.Helper()
	backend := storagetest.NewFlakyBackend()
	history := &recordingHistory{}
	clock := newFakeClock()
	tr := New(backend, history, "visitor-1", Options{Now: clock.Now}, zerolog.Nop())
	return tr, backend, history, clock
}

func TestTracker_StartCreatesActiveSession(t *testing.T) {
	t.Parallel()

	tr, backend, _, clock := newTestTracker(t)
	ctx := context.Background()

	id := tr.Start(ctx, "post-1")
	wantID := "post-1-" + strconv.FormatInt(clock.Now().UnixMilli(), 10)
	if id != wantID {
		t.Errorf("Start() = %q, want %q", id, wantID)
	}

	s, ok := tr.Get(ctx, id)
	if !ok {
		t.Fatal("Get() ok = false after Start")
	}
	if s.Ended() || s.ProgressPercentage != 0 || s.Completed {
		t.Errorf("new session = %+v, want active with zero progress", s)
	}
	if _, err := backend.Get(ctx, storage.SessionKey("visitor-1", id)); err != nil {
		t.Errorf("session not persisted: %v", err)
	}
}

func TestTracker_StartSameMillisecondGetsUniqueIDs(t *testing.T) {
	t.Parallel()

	tr, _, _, _ := newTestTracker(t)
	ctx := context.Background()

	a := tr.Start(ctx, "post-1")
	b := tr.Start(ctx, "post-1")
	if a == b {
		t.Fatalf("Start() returned duplicate id %q", a)
	}
	if !strings.HasPrefix(b, a) {
		t.Errorf("second id %q should extend %q", b, a)
	}
}

func TestTracker_CompletionThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		progress  float64
		completed bool
	}{
		{89, false},
		{89.99, false},
		{90, true},
		{100, true},
		{250, true},
	}
	for _, tt := range tests {
		tr, _, _, _ := newTestTracker(t)
		ctx := context.Background()
		id := tr.Start(ctx, "post-1")

		if !tr.UpdateProgress(ctx, id, tt.progress) {
			t.Fatalf("UpdateProgress(%v) = false", tt.progress)
		}
		s, _ := tr.Get(ctx, id)
		if s.Completed != tt.completed {
			t.Errorf("progress %v: Completed = %v, want %v", tt.progress, s.Completed, tt.completed)
		}
	}
}

func TestTracker_ProgressIsLastWriteWins(t *testing.T) {
	t.Parallel()

	tr, _, _, _ := newTestTracker(t)
	ctx := context.Background()
	id := tr.Start(ctx, "post-1")

	tr.UpdateProgress(ctx, id, 95)
	tr.UpdateProgress(ctx, id, 40)

	s, _ := tr.Get(ctx, id)
	if s.ProgressPercentage != 40 || s.Completed {
		t.Errorf("session = %+v, want progress 40 and not completed", s)
	}
}

func TestTracker_HistoryThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		progress float64
		inHist   bool
	}{
		{19, false},
		{19.9, false},
		{20, true},
		{55, true},
	}
	for _, tt := range tests {
		tr, _, history, _ := newTestTracker(t)
		ctx := context.Background()
		id := tr.Start(ctx, "post-x")
		tr.UpdateProgress(ctx, id, tt.progress)
		tr.End(ctx, id)

		got := len(history.IDs()) == 1
		if got != tt.inHist {
			t.Errorf("progress %v: added to history = %v, want %v", tt.progress, got, tt.inHist)
		}
	}
}

func TestTracker_EndStampsDuration(t *testing.T) {
	t.Parallel()

	tr, _, _, clock := newTestTracker(t)
	ctx := context.Background()
	id := tr.Start(ctx, "post-1")
	clock.Advance(3 * time.Minute)

	s, ok := tr.End(ctx, id)
	if !ok {
		t.Fatal("End() ok = false")
	}
	if s.Duration() != 3*time.Minute {
		t.Errorf("Duration() = %v, want 3m", s.Duration())
	}
}

func TestTracker_UnknownAndEndedSessionsAreNoOps(t *testing.T) {
	t.Parallel()

	tr, _, history, clock := newTestTracker(t)
	ctx := context.Background()

	if tr.UpdateProgress(ctx, "nope", 50) {
		t.Error("UpdateProgress(unknown) = true, want false")
	}
	if _, ok := tr.End(ctx, "nope"); ok {
		t.Error("End(unknown) ok = true, want false")
	}

	id := tr.Start(ctx, "post-1")
	tr.UpdateProgress(ctx, id, 50)
	first, _ := tr.End(ctx, id)

	clock.Advance(time.Hour)
	if tr.UpdateProgress(ctx, id, 99) {
		t.Error("UpdateProgress(ended) = true, want false")
	}
	if _, ok := tr.End(ctx, id); ok {
		t.Error("End(ended) ok = true, want false")
	}

	s, _ := tr.Get(ctx, id)
	if s.ProgressPercentage != 50 || !s.EndTime.Equal(*first.EndTime) {
		t.Errorf("ended session changed: %+v", s)
	}
	if len(history.IDs()) != 1 {
		t.Errorf("history calls = %d, want 1", len(history.IDs()))
	}
}

func TestTracker_ReloadFromStorage(t *testing.T) {
	t.Parallel()

	tr, backend, _, clock := newTestTracker(t)
	ctx := context.Background()
	id := tr.Start(ctx, "post-1")
	tr.UpdateProgress(ctx, id, 92)
	tr.End(ctx, id)

	fresh := New(backend, nil, "visitor-1", Options{Now: clock.Now}, zerolog.Nop())
	sessions := fresh.Sessions(ctx)
	if len(sessions) != 1 {
		t.Fatalf("Sessions() = %d, want 1", len(sessions))
	}
	if s := sessions[id]; !s.Completed || !s.Ended() {
		t.Errorf("reloaded session = %+v, want completed and ended", s)
	}

	other := New(backend, nil, "visitor-2", Options{Now: clock.Now}, zerolog.Nop())
	if n := len(other.Sessions(ctx)); n != 0 {
		t.Errorf("other visitor sees %d sessions, want 0", n)
	}
}

func TestTracker_SkipsMalformedRecords(t *testing.T) {
	t.Parallel()

	backend := storagetest.NewFlakyBackend()
	ctx := context.Background()
	_ = backend.Set(ctx, storage.SessionKey("visitor-1", "broken"), []byte("{not json"))
	_ = backend.Set(ctx, storage.SessionKey("visitor-1", "ok-1"),
		[]byte(`{"id":"ok-1","contentId":"p","startTime":"2026-05-01T10:00:00Z","progressPercentage":10}`))

	tr := New(backend, nil, "visitor-1", Options{}, zerolog.Nop())
	sessions := tr.Sessions(ctx)
	if len(sessions) != 1 {
		t.Fatalf("Sessions() = %d, want 1", len(sessions))
	}
	if _, ok := sessions["ok-1"]; !ok {
		t.Error("valid session missing")
	}
}

func TestTracker_StorageUnavailableKeepsWorking(t *testing.T) {
	t.Parallel()

	tr, backend, history, _ := newTestTracker(t)
	ctx := context.Background()
	backend.SetFailing(true)

	id := tr.Start(ctx, "post-1")
	tr.UpdateProgress(ctx, id, 91)
	s, ok := tr.End(ctx, id)
	if !ok || !s.Completed {
		t.Errorf("End() = %+v, %v, want completed session", s, ok)
	}
	if len(history.IDs()) != 1 {
		t.Error("history not updated while storage is down")
	}

	backend.SetFailing(false)
	if n := len(tr.Sessions(ctx)); n != 1 {
		t.Errorf("Sessions() after recovery = %d, want 1 (in-memory copy kept)", n)
	}
}

func TestTracker_PruneAndClear(t *testing.T) {
	t.Parallel()

	tr, backend, _, clock := newTestTracker(t)
	ctx := context.Background()

	old := tr.Start(ctx, "old")
	tr.End(ctx, old)
	clock.Advance(48 * time.Hour)
	open := tr.Start(ctx, "open")
	recent := tr.Start(ctx, "recent")
	tr.End(ctx, recent)

	cutoff := clock.Now().Add(-24 * time.Hour)
	if n := tr.Prune(ctx, cutoff); n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	if _, ok := tr.Get(ctx, old); ok {
		t.Error("old session survived Prune")
	}
	if _, ok := tr.Get(ctx, open); !ok {
		t.Error("open session was pruned")
	}

	tr.Clear(ctx)
	if n := len(tr.Sessions(ctx)); n != 0 {
		t.Errorf("Sessions() after Clear = %d, want 0", n)
	}
	entries, _ := backend.List(ctx, storage.SessionsPrefix("visitor-1"))
	if len(entries) != 0 {
		t.Errorf("storage still has %d sessions after Clear", len(entries))
	}
}

func TestPruneBackend(t *testing.T) {
	t.Parallel()

	backend := storagetest.NewFlakyBackend()
	clock := newFakeClock()
	ctx := context.Background()

	a := New(backend, nil, "a", Options{Now: clock.Now}, zerolog.Nop())
	b := New(backend, nil, "b", Options{Now: clock.Now}, zerolog.Nop())
	a.End(ctx, a.Start(ctx, "p1"))
	b.Start(ctx, "p2") // stays open
	clock.Advance(400 * 24 * time.Hour)
	b.End(ctx, b.Start(ctx, "p3"))
	_ = backend.Set(ctx, storage.SessionKey("c", "junk"), []byte("junk"))

	res, err := PruneBackend(ctx, backend, clock.Now().Add(-365*24*time.Hour), zerolog.Nop())
	if err != nil {
		t.Fatalf("PruneBackend() error = %v", err)
	}
	if res.Scanned != 4 || res.Pruned != 2 || res.Malformed != 1 || res.Visitors != 3 {
		t.Errorf("PruneBackend() = %+v, want scanned 4, pruned 2, malformed 1, visitors 3", res)
	}

	entries, _ := backend.List(ctx, storage.AllSessionsPrefix)
	if len(entries) != 2 {
		t.Errorf("remaining sessions = %d, want 2", len(entries))
	}
}

func TestPruneBackend_Unavailable(t *testing.T) {
	t.Parallel()

	backend := storagetest.NewFlakyBackend()
	backend.SetFailing(true)
	if _, err := PruneBackend(context.Background(), backend, time.Now(), zerolog.Nop()); err == nil {
		t.Error("PruneBackend() error = nil, want error")
	}
}
