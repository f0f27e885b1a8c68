// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package tracker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/storage"
)

// HistoryRecorder receives content ids of sessions that ended past the
// history threshold. *preferences.Store satisfies it.
type HistoryRecorder interface {
	AddToHistory(ctx context.Context, id models.ContentID)
}

// Options tunes a Tracker. Zero values select the defaults.
type Options struct {
	// CompletionThreshold marks a session completed. Default: 90.
	CompletionThreshold float64

	// HistoryThreshold is the progress needed on end to enter the reading
	// history. Default: 20.
	HistoryThreshold float64

	// Now returns the current time. Default: time.Now.
	Now func() time.Time
}

// Tracker owns the reading sessions of one visitor.
//
// Every session is persisted under its own key. The in-memory map is loaded
// lazily and stays authoritative when storage is unavailable.
type Tracker struct {
	backend   storage.Backend
	history   HistoryRecorder
	visitorID string
	logger    zerolog.Logger
	opts      Options

	mu       sync.Mutex
	sessions map[string]models.ReadingSession
	loaded   bool
}

// New creates a tracker for visitorID.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(backend storage.Backend, history HistoryRecorder, visitorID string, opts Options, logger zerolog.Logger) *Tracker {
	if opts.CompletionThreshold <= 0 {
		opts.CompletionThreshold = models.CompletionThreshold
	}
	if opts.HistoryThreshold <= 0 {
		opts.HistoryThreshold = models.HistoryThreshold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{
		backend:   backend,
		history:   history,
		visitorID: visitorID,
		logger:    logger.With().Str("component", "tracker").Str("visitor_id", visitorID).Logger(),
		opts:      opts,
		sessions:  make(map[string]models.ReadingSession),
	}
}

// Start opens a new ACTIVE session for contentID and returns its id.
func (t *Tracker) Start(ctx context.Context, contentID models.ContentID) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadLocked(ctx)

	now := t.opts.Now()
	id := t.newIDLocked(contentID, now)
	session := models.ReadingSession{
		ID:        id,
		ContentID: contentID,
		StartTime: now,
	}
	t.sessions[id] = session
	t.persistLocked(ctx, session)

	metrics.RecordSessionStarted()
	t.logger.Debug().Str("session_id", id).Str("content_id", string(contentID)).Msg("Reading session started")
	return id
}

func (t *Tracker) newIDLocked(contentID models.ContentID, now time.Time) string {
	base := fmt.Sprintf("%s-%d", contentID, now.UnixMilli())
	id := base
	for n := 2; ; n++ {
		if _, exists := t.sessions[id]; !exists {
			return id
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// UpdateProgress overwrites the progress of an ACTIVE session and recomputes
// its completed flag. Unknown and ended sessions are ignored; the return
// value reports whether the update applied.
func (t *Tracker) UpdateProgress(ctx context.Context, sessionID string, pct float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadLocked(ctx)

	session, ok := t.sessions[sessionID]
	if !ok || session.Ended() {
		t.logger.Debug().Str("session_id", sessionID).Msg("Progress for unknown or ended session ignored")
		return false
	}

	session.ProgressPercentage = models.ClampProgress(pct)
	session.Completed = session.ProgressPercentage >= t.opts.CompletionThreshold
	t.sessions[sessionID] = session
	t.persistLocked(ctx, session)
	return true
}

// SetActiveSeconds records visible reading time on an ACTIVE session.
func (t *Tracker) SetActiveSeconds(ctx context.Context, sessionID string, seconds float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadLocked(ctx)

	session, ok := t.sessions[sessionID]
	if !ok || session.Ended() {
		return false
	}
	session.ActiveSeconds = seconds
	t.sessions[sessionID] = session
	t.persistLocked(ctx, session)
	return true
}

// End stamps the end time on an ACTIVE session. Sessions that reached the
// history threshold are added to the reading history. Unknown and ended
// sessions are ignored.
func (t *Tracker) End(ctx context.Context, sessionID string) (models.ReadingSession, bool) {
	t.mu.Lock()
	session, ok := t.endLocked(ctx, sessionID)
	t.mu.Unlock()
	if !ok {
		return models.ReadingSession{}, false
	}

	outcome := "skimmed"
	if session.ProgressPercentage >= t.opts.HistoryThreshold {
		outcome = "read"
		if t.history != nil {
			t.history.AddToHistory(ctx, session.ContentID)
		}
	}
	if session.Completed {
		outcome = "completed"
	}
	metrics.RecordSessionEnded(outcome)

	t.logger.Debug().
		Str("session_id", sessionID).
		Float64("progress", session.ProgressPercentage).
		Dur("duration", session.Duration()).
		Str("outcome", outcome).
		Msg("Reading session ended")
	return session, true
}

func (t *Tracker) endLocked(ctx context.Context, sessionID string) (models.ReadingSession, bool) {
	t.loadLocked(ctx)

	session, ok := t.sessions[sessionID]
	if !ok || session.Ended() {
		t.logger.Debug().Str("session_id", sessionID).Msg("End for unknown or ended session ignored")
		return models.ReadingSession{}, false
	}

	end := t.opts.Now()
	if end.Before(session.StartTime) {
		end = session.StartTime
	}
	session.EndTime = &end
	t.sessions[sessionID] = session
	t.persistLocked(ctx, session)
	return session.Clone(), true
}

// Get returns one session.
func (t *Tracker) Get(ctx context.Context, sessionID string) (models.ReadingSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadLocked(ctx)

	session, ok := t.sessions[sessionID]
	if !ok {
		return models.ReadingSession{}, false
	}
	return session.Clone(), true
}

// Sessions returns a copy of the full session map keyed by session id.
func (t *Tracker) Sessions(ctx context.Context) map[string]models.ReadingSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadLocked(ctx)

	out := make(map[string]models.ReadingSession, len(t.sessions))
	for id, s := range t.sessions {
		out[id] = s.Clone()
	}
	return out
}

// SessionList returns all sessions ordered by start time.
func (t *Tracker) SessionList(ctx context.Context) []models.ReadingSession {
	all := t.Sessions(ctx)
	list := make([]models.ReadingSession, 0, len(all))
	for _, s := range all {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartTime.Equal(list[j].StartTime) {
			return list[i].ID < list[j].ID
		}
		return list[i].StartTime.Before(list[j].StartTime)
	})
	return list
}

// Prune removes sessions that started before cutoff and returns how many
// were removed. ACTIVE sessions are kept.
func (t *Tracker) Prune(ctx context.Context, cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadLocked(ctx)

	removed := 0
	for id, s := range t.sessions {
		if !s.Ended() || !s.StartTime.Before(cutoff) {
			continue
		}
		if err := t.backend.Delete(ctx, storage.SessionKey(t.visitorID, id)); err != nil {
			t.logger.Warn().Err(err).Str("session_id", id).Msg("Failed to delete pruned session")
		}
		delete(t.sessions, id)
		removed++
	}
	return removed
}

// Clear erases every session of the visitor, in memory and in storage.
func (t *Tracker) Clear(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.backend.DeletePrefix(ctx, storage.SessionsPrefix(t.visitorID)); err != nil {
		t.logger.Warn().Err(err).Msg("Failed to erase sessions record")
	}
	t.sessions = make(map[string]models.ReadingSession)
	t.loaded = true
}

// Invalidate drops ended sessions from memory so the next read reloads them
// from storage. ACTIVE sessions stay in memory.
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, s := range t.sessions {
		if s.Ended() {
			delete(t.sessions, id)
		}
	}
	t.loaded = false
}

// loadLocked reads persisted sessions once. Entries already in memory win
// over persisted ones, which matters after a failed write.
func (t *Tracker) loadLocked(ctx context.Context) {
	if t.loaded {
		return
	}

	entries, err := t.backend.List(ctx, storage.SessionsPrefix(t.visitorID))
	if err != nil {
		t.logger.Warn().Err(err).Msg("Sessions unavailable, continuing in memory")
		return
	}

	for _, e := range entries {
		_, id, ok := storage.ParseSessionKey(e.Key)
		if !ok {
			continue
		}
		if _, exists := t.sessions[id]; exists {
			continue
		}
		var session models.ReadingSession
		if err := json.Unmarshal(e.Value, &session); err != nil {
			t.logger.Warn().Err(err).Str("session_id", id).Msg("Skipping malformed session record")
			continue
		}
		if session.ID == "" {
			session.ID = id
		}
		t.sessions[id] = session
	}
	t.loaded = true
}

//nolint:gocritic // ReadingSession is small and copied on purpose
func (t *Tracker) persistLocked(ctx context.Context, session models.ReadingSession) {
	data, err := json.Marshal(session)
	if err != nil {
		t.logger.Error().Err(err).Str("session_id", session.ID).Msg("Failed to encode session")
		return
	}
	if err := t.backend.Set(ctx, storage.SessionKey(t.visitorID, session.ID), data); err != nil {
		t.logger.Warn().Err(err).Str("session_id", session.ID).Msg("Failed to persist session, keeping in-memory copy")
	}
}
