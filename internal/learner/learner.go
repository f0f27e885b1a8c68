// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package learner promotes categories to favorites from engagement events.
//
// Promotion is count based: once the visitor has read enough posts, any
// category they engage with becomes a favorite. The signal kind is counted
// in metrics but does not weigh into the decision. Categories are never
// demoted.
package learner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// ErrUnknownSignal is returned by ParseSignal for unrecognized signal names.
var ErrUnknownSignal = errors.New("unknown engagement signal")

// Signal is a kind of engagement with a piece of content.
type Signal string

// Known signals.
const (
	SignalRead       Signal = "read"
	SignalLiked      Signal = "liked"
	SignalShared     Signal = "shared"
	SignalBookmarked Signal = "bookmarked"
)

// Signals lists every known signal.
var Signals = []Signal{SignalRead, SignalLiked, SignalShared, SignalBookmarked}

// Valid reports whether s is a known signal.
func (s Signal) Valid() bool {
	switch s {
	case SignalRead, SignalLiked, SignalShared, SignalBookmarked:
		return true
	default:
		return false
	}
}

// ParseSignal converts a case-insensitive name into a Signal.
func ParseSignal(name string) (Signal, error) {
	s := Signal(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSignal, name)
	}
	return s, nil
}

// PreferenceStore is the slice of the preference store the learner needs.
type PreferenceStore interface {
	Load(ctx context.Context) models.Preferences
	AddFavoriteCategory(ctx context.Context, c models.CategoryID) bool
}

const (
	// MinHistory is the number of read posts required before any promotion.
	MinHistory = 3
	// historyRatio scales the threshold with history length.
	historyRatio = 0.1
)

// Learner is the category promotion loop for one visitor.
type Learner struct {
	store  PreferenceStore
	logger zerolog.Logger
}

// New creates a learner writing into store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(store PreferenceStore, logger zerolog.Logger) *Learner {
	return &Learner{
		store:  store,
		logger: logger.With().Str("component", "learner").Logger(),
	}
}

// RecordEngagement registers an engagement with category and promotes it to
// a favorite when the visitor's reading history is long enough. It reports
// whether a promotion happened. Unknown signals and empty categories are
// ignored.
func (l *Learner) RecordEngagement(ctx context.Context, category models.CategoryID, signal Signal) bool {
	if !signal.Valid() {
		l.logger.Debug().Str("signal", string(signal)).Msg("Ignoring unknown engagement signal")
		return false
	}
	if category == "" {
		l.logger.Debug().Str("signal", string(signal)).Msg("Ignoring engagement without category")
		return false
	}
	metrics.RecordEngagement(string(signal))

	prefs := l.store.Load(ctx)
	if prefs.IsFavoriteCategory(category) {
		return false
	}
	if !Eligible(len(prefs.ReadingHistory)) {
		return false
	}
	if !l.store.AddFavoriteCategory(ctx, category) {
		return false
	}

	metrics.RecordCategoryPromotion()
	l.logger.Info().
		Str("category", string(category)).
		Str("signal", string(signal)).
		Int("history_length", len(prefs.ReadingHistory)).
		Msg("Promoted category to favorite")
	return true
}

// Eligible reports whether a history of the given length allows promotion.
// The threshold is max(MinHistory, 10% of the history length).
func Eligible(historyLen int) bool {
	threshold := math.Max(MinHistory, historyRatio*float64(historyLen))
	return float64(historyLen) >= threshold
}
