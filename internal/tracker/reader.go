// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// ReaderState is the state of the active-reading controller.
type ReaderState int

const (
	// StateIdle means no session is active.
	StateIdle ReaderState = iota
	// StateReading means a session is active and the content is visible.
	StateReading
	// StateSuspended means a session is active but hidden or unfocused.
	StateSuspended
)

// String returns the state name.
func (s ReaderState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// DefaultTickInterval is the active-time sampling period.
const DefaultTickInterval = time.Second

// Reader owns the single active session of a visitor and the timer that
// accumulates visible reading time.
//
//	Idle --Begin--> Reading <--Suspend/Resume--> Suspended
//	Reading|Suspended --Finish--> Idle
//
// The tick timer runs only in Reading. With a non-positive interval no timer
// goroutine is started and time advances only through Tick.
type Reader struct {
	tracker  *Tracker
	interval time.Duration
	logger   zerolog.Logger

	mu        sync.Mutex
	state     ReaderState
	sessionID string
	active    time.Duration
	gen       uint64
	stop      chan struct{}
}

// NewReader creates an idle reader on top of tracker.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewReader(tracker *Tracker, interval time.Duration, logger zerolog.Logger) *Reader {
	return &Reader{
		tracker:  tracker,
		interval: interval,
		logger:   logger.With().Str("component", "reader").Logger(),
	}
}

// Begin ends any active session and starts a new one for contentID in the
// Reading state. It returns the new session id.
func (r *Reader) Begin(ctx context.Context, contentID models.ContentID) string {
	r.Finish(ctx)

	id := r.tracker.Start(ctx, contentID)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateReading
	r.sessionID = id
	r.active = 0
	r.startTimerLocked()
	return id
}

// Progress forwards pct to the active session. It is a no-op when idle.
func (r *Reader) Progress(ctx context.Context, pct float64) bool {
	r.mu.Lock()
	id := r.sessionID
	r.mu.Unlock()
	if id == "" {
		return false
	}
	return r.tracker.UpdateProgress(ctx, id, pct)
}

// Suspend pauses active-time accounting (tab hidden or window blurred).
func (r *Reader) Suspend() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateReading {
		return
	}
	r.state = StateSuspended
	r.stopTimerLocked()
}

// Resume restarts active-time accounting after Suspend.
func (r *Reader) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateSuspended {
		return
	}
	r.state = StateReading
	r.startTimerLocked()
}

// SetVisible maps a visibility or focus change onto Suspend and Resume.
func (r *Reader) SetVisible(visible bool) {
	if visible {
		r.Resume()
		return
	}
	r.Suspend()
}

// Tick adds one interval of active time when Reading. A manual reader
// (non-positive interval) counts one second per tick.
func (r *Reader) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickLocked()
}

func (r *Reader) tickLocked() {
	if r.state != StateReading {
		return
	}
	step := r.interval
	if step <= 0 {
		step = DefaultTickInterval
	}
	r.active += step
}

// Finish stops the timer, stores the accumulated active time and ends the
// session. It returns the ended session, or false when idle.
func (r *Reader) Finish(ctx context.Context) (models.ReadingSession, bool) {
	r.mu.Lock()
	if r.state == StateIdle {
		r.mu.Unlock()
		return models.ReadingSession{}, false
	}
	r.stopTimerLocked()
	id := r.sessionID
	active := r.active
	r.state = StateIdle
	r.sessionID = ""
	r.active = 0
	r.mu.Unlock()

	r.tracker.SetActiveSeconds(ctx, id, active.Seconds())
	session, ok := r.tracker.End(ctx, id)
	if ok {
		metrics.RecordActiveReading(active.Seconds())
	}
	return session, ok
}

// Abandon stops the timer and returns to Idle without ending the session.
// Used when the session itself has been erased.
func (r *Reader) Abandon() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopTimerLocked()
	r.state = StateIdle
	r.sessionID = ""
	r.active = 0
}

// State returns the current state.
func (r *Reader) State() ReaderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SessionID returns the active session id, or "" when idle.
func (r *Reader) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// ActiveTime returns the visible reading time of the active session.
func (r *Reader) ActiveTime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Ticking reports whether the timer goroutine is running.
func (r *Reader) Ticking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

func (r *Reader) startTimerLocked() {
	if r.interval <= 0 || r.stop != nil {
		return
	}
	r.gen++
	gen := r.gen
	stop := make(chan struct{})
	r.stop = stop

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.mu.Lock()
				// A tick that raced with stop belongs to an old timer.
				if r.gen == gen {
					r.tickLocked()
				}
				r.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

func (r *Reader) stopTimerLocked() {
	if r.stop == nil {
		return
	}
	close(r.stop)
	r.stop = nil
	r.gen++
}
