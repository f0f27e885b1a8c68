// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package preferences implements the durable per-visitor preference record.
//
// A Store reads the record once, keeps it cached and writes it back on every
// mutation. Storage failures never reach the caller: a load that cannot read
// or decode the record returns the defaults, and a failed write leaves the
// in-memory copy updated while the persisted copy lags behind.
package preferences

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/storage"
)

// Store is the preference store for a single visitor.
type Store struct {
	backend   storage.Backend
	key       string
	visitorID string
	logger    zerolog.Logger

	mu     sync.Mutex
	cached *models.Preferences
}

// NewStore creates a store for visitorID on top of backend.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewStore(backend storage.Backend, visitorID string, logger zerolog.Logger) *Store {
	return &Store{
		backend:   backend,
		key:       storage.PreferencesKey(visitorID),
		visitorID: visitorID,
		logger:    logger.With().Str("component", "preferences").Str("visitor_id", visitorID).Logger(),
	}
}

// Load returns the current preferences. The first call reads the persisted
// record and merges it over the defaults; later calls are served from cache.
func (s *Store) Load(ctx context.Context) models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx).Clone()
}

func (s *Store) loadLocked(ctx context.Context) *models.Preferences {
	if s.cached != nil {
		return s.cached
	}

	prefs := models.DefaultPreferences()
	raw, err := s.backend.Get(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		metrics.RecordPreferencesFallback("missing")
	case err != nil:
		metrics.RecordPreferencesFallback("unavailable")
		s.logger.Warn().Err(err).Msg("Preferences unavailable, using defaults")
	default:
		merged := models.DefaultPreferences()
		if err := json.Unmarshal(raw, &merged); err != nil {
			metrics.RecordPreferencesFallback("malformed")
			s.logger.Warn().Err(err).Int("bytes", len(raw)).Msg("Malformed preferences record, using defaults")
		} else {
			prefs = merged
		}
	}

	prefs.Normalize()
	s.cached = &prefs
	return s.cached
}

// Save merges patch over the current preferences, persists the result and
// returns it.
func (s *Store) Save(ctx context.Context, patch models.PreferencesPatch) models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := patch.Apply(*s.loadLocked(ctx))
	s.cached = &merged
	s.persistLocked(ctx)
	return merged.Clone()
}

// Mutate applies fn to the cached preferences, re-normalizes, persists and
// returns the new value. It is the write path for the engine's
// single-field operations.
func (s *Store) Mutate(ctx context.Context, fn func(p *models.Preferences)) models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.loadLocked(ctx)
	fn(prefs)
	prefs.Normalize()
	s.persistLocked(ctx)
	return prefs.Clone()
}

// ToggleBookmark flips bookmark membership for id and returns the new state.
func (s *Store) ToggleBookmark(ctx context.Context, id models.ContentID) bool {
	var added bool
	s.Mutate(ctx, func(p *models.Preferences) {
		added = p.ToggleBookmark(id)
	})
	metrics.RecordBookmarkToggle(added)
	s.logger.Debug().Str("content_id", string(id)).Bool("bookmarked", added).Msg("Bookmark toggled")
	return added
}

// IsBookmarked reports whether id is bookmarked.
func (s *Store) IsBookmarked(ctx context.Context, id models.ContentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx).HasBookmark(id)
}

// AddToHistory moves id to the front of the reading history.
func (s *Store) AddToHistory(ctx context.Context, id models.ContentID) {
	s.Mutate(ctx, func(p *models.Preferences) {
		p.PushHistory(id)
	})
}

// AddFavoriteCategory adds c to the favorite categories and reports whether
// it was newly added. Nothing is written when c is already a favorite.
func (s *Store) AddFavoriteCategory(ctx context.Context, c models.CategoryID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.loadLocked(ctx)
	if !prefs.AddFavoriteCategory(c) {
		return false
	}
	s.persistLocked(ctx)
	return true
}

// Clear erases the persisted record and resets the cache to defaults.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.key); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to erase preferences record")
	}
	defaults := models.DefaultPreferences()
	s.cached = &defaults
}

// Invalidate drops the cached copy so the next Load reads from storage.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}

func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.cached)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode preferences")
		return
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist preferences, keeping in-memory copy")
	}
}
