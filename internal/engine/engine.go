// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package engine

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/learner"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/preferences"
	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/stats"
	"github.com/tomtom215/folio/internal/storage"
	"github.com/tomtom215/folio/internal/tracker"
)

// Options tunes an Engine. Zero values select the defaults.
type Options struct {
	// Location defines calendar days for streaks and goals. Default: time.Local.
	Location *time.Location

	// TickInterval is the active-time sampling period. A non-positive value
	// disables the timer goroutine; active time then advances only through
	// Reader().Tick.
	TickInterval time.Duration

	// Tracker passes through session thresholds and the clock.
	Tracker tracker.Options
}

// DefaultOptions returns options with a one-second tick in local time.
func DefaultOptions() Options {
	return Options{
		Location:     time.Local,
		TickInterval: tracker.DefaultTickInterval,
	}
}

// Engine is the personalization engine of a single visitor. Operations are
// serialized; different visitors use different engines.
//
// No operation returns an error. Storage failures degrade to in-memory state
// and are logged by the component that hit them.
type Engine struct {
	visitorID string
	logger    zerolog.Logger
	loc       *time.Location
	now       func() time.Time

	prefs   *preferences.Store
	tracker *tracker.Tracker
	reader  *tracker.Reader
	ranker  *recommend.Ranker
	learner *learner.Learner

	mu     sync.Mutex
	closed bool
}

// New composes an engine for visitorID over backend. The ranker is shared
// between engines.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(backend storage.Backend, visitorID string, ranker *recommend.Ranker, opts Options, logger zerolog.Logger) *Engine {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Tracker.Now == nil {
		opts.Tracker.Now = time.Now
	}
	if ranker == nil {
		ranker = recommend.NewRanker(recommend.DefaultConfig(), nil, logger)
	}

	prefs := preferences.NewStore(backend, visitorID, logger)
	tr := tracker.New(backend, prefs, visitorID, opts.Tracker, logger)
	visitorLogger := logger.With().Str("visitor_id", visitorID).Logger()

	return &Engine{
		visitorID: visitorID,
		logger:    visitorLogger.With().Str("component", "engine").Logger(),
		loc:       opts.Location,
		now:       opts.Tracker.Now,
		prefs:     prefs,
		tracker:   tr,
		reader:    tracker.NewReader(tr, opts.TickInterval, visitorLogger),
		ranker:    ranker.WithClock(opts.Tracker.Now),
		learner:   learner.New(prefs, visitorLogger),
	}
}

// VisitorID returns the visitor this engine serves.
func (e *Engine) VisitorID() string { return e.visitorID }

// Reader exposes the session controller, mainly for manual ticking.
func (e *Engine) Reader() *tracker.Reader { return e.reader }

// GetPreferences returns the visitor's preferences.
func (e *Engine) GetPreferences(ctx context.Context) models.Preferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs.Load(ctx)
}

// UpdatePreferences merges patch into the preferences and returns the result.
func (e *Engine) UpdatePreferences(ctx context.Context, patch models.PreferencesPatch) models.Preferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs.Save(ctx, patch)
}

// ToggleBookmark flips the bookmark for id and returns the new state.
func (e *Engine) ToggleBookmark(ctx context.Context, id models.ContentID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs.ToggleBookmark(ctx, id)
}

// IsBookmarked reports whether id is bookmarked.
func (e *Engine) IsBookmarked(ctx context.Context, id models.ContentID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs.IsBookmarked(ctx, id)
}

// StartReading ends the current session, if any, and starts one for
// contentID. It returns the new session id, or "" once the engine is closed.
func (e *Engine) StartReading(ctx context.Context, contentID models.ContentID) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ""
	}
	return e.reader.Begin(ctx, contentID)
}

// UpdateReadingProgress records pct against the current session. It reports
// false when no session is active.
func (e *Engine) UpdateReadingProgress(ctx context.Context, pct float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	return e.reader.Progress(ctx, pct)
}

// EndReading ends the current session and returns it. It reports false when
// no session is active.
func (e *Engine) EndReading(ctx context.Context) (models.ReadingSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reader.Finish(ctx)
}

// CurrentSession returns the active session, if any.
func (e *Engine) CurrentSession(ctx context.Context) (models.ReadingSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.reader.SessionID()
	if id == "" {
		return models.ReadingSession{}, false
	}
	return e.tracker.Get(ctx, id)
}

// SetVisibility suspends or resumes active-time accounting.
func (e *Engine) SetVisibility(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.reader.SetVisible(visible)
}

// RecordEngagement feeds an engagement into the category learner and
// reports whether the category was promoted.
func (e *Engine) RecordEngagement(ctx context.Context, category models.CategoryID, signal learner.Signal) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.learner.RecordEngagement(ctx, category, signal)
}

// Recommend ranks items for the visitor, best first, with score breakdowns.
func (e *Engine) Recommend(ctx context.Context, items []models.ContentItem, limit int) []models.Recommendation {
	e.mu.Lock()
	prefs := e.prefs.Load(ctx)
	e.mu.Unlock()
	return e.ranker.Rank(ctx, prefs, items, limit)
}

// GetRecommendations returns up to models.RecommendationLimit unread items,
// best first.
func (e *Engine) GetRecommendations(ctx context.Context, items []models.ContentItem) []models.ContentItem {
	return recommend.Items(e.Recommend(ctx, items, models.RecommendationLimit))
}

// GetReadingStats derives statistics from every stored session.
func (e *Engine) GetReadingStats(ctx context.Context) models.ReadingStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statsLocked(ctx, e.tracker.SessionList(ctx))
}

func (e *Engine) statsLocked(ctx context.Context, sessions []models.ReadingSession) models.ReadingStats {
	now := e.now()
	result := stats.Compute(sessions, now, e.loc)
	result.Goals = stats.Goals(sessions, e.prefs.Load(ctx).ReadingGoals, now, e.loc)
	return result
}

// Snapshot collects preferences, sessions and stats for export.
func (e *Engine) Snapshot(ctx context.Context) models.ExportSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	sessions := e.tracker.Sessions(ctx)
	list := make([]models.ReadingSession, 0, len(sessions))
	for _, s := range sessions {
		list = append(list, s)
	}
	return models.ExportSnapshot{
		SchemaVersion: models.ExportSchemaVersion,
		Preferences:   e.prefs.Load(ctx),
		Sessions:      sessions,
		Stats:         e.statsLocked(ctx, list),
		ExportDate:    e.now().UTC(),
	}
}

// ExportData returns the export snapshot serialized as JSON.
func (e *Engine) ExportData(ctx context.Context) string {
	snapshot := e.Snapshot(ctx)
	data, err := json.Marshal(snapshot)
	if err != nil {
		e.logger.Error().Err(err).Msg("Failed to encode export snapshot")
		return "{}"
	}
	metrics.RecordDataOperation("export")
	e.logger.Info().Int("sessions", len(snapshot.Sessions)).Msg("Visitor data exported")
	return string(data)
}

// ClearData erases the visitor's preferences and sessions. An active session
// is dropped without being recorded.
func (e *Engine) ClearData(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reader.Abandon()
	e.prefs.Clear(ctx)
	e.tracker.Clear(ctx)

	metrics.RecordDataOperation("clear")
	e.logger.Info().Msg("Visitor data cleared")
}

// PruneSessions drops ended sessions that started before cutoff.
func (e *Engine) PruneSessions(ctx context.Context, cutoff time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Prune(ctx, cutoff)
}

// Invalidate forgets cached state so the next read goes to storage. The
// active session survives.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefs.Invalidate()
	e.tracker.Invalidate()
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Close ends the active session, as if the visitor left the page. Session
// operations on a closed engine do nothing. Calling Close again is a no-op.
func (e *Engine) Close(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	if s, ok := e.reader.Finish(ctx); ok {
		e.logger.Debug().Str("session_id", s.ID).Msg("Active session ended on close")
	}
}
