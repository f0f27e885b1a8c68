// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"sort"
	"time"

	"github.com/tomtom215/folio/internal/models"
)

// Signal names used as keys in a score breakdown.
const (
	SignalCategory = "category"
	SignalTags     = "tags"
	SignalLikes    = "likes"
	SignalViews    = "views"
	SignalRecency  = "recency"
)

// signalOrder fixes the summation order so equal breakdowns always produce
// bit-identical totals.
var signalOrder = []string{SignalCategory, SignalTags, SignalLikes, SignalViews, SignalRecency}

// Breakdown maps a signal name to the points it contributed.
type Breakdown map[string]float64

// Total sums all signal contributions: the built-in signals first in a fixed
// order, then any other keys sorted by name.
func (b Breakdown) Total() float64 {
	var sum float64
	for _, k := range signalOrder {
		sum += b[k]
	}
	var extra []string
	for k := range b {
		if !isBuiltinSignal(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		sum += b[k]
	}
	return sum
}

func isBuiltinSignal(k string) bool {
	for _, s := range signalOrder {
		if s == k {
			return true
		}
	}
	return false
}

// Scorer rates a single catalog item for a visitor. Implementations must be
// deterministic for a fixed now and safe for concurrent use.
type Scorer interface {
	// Name identifies the scorer in logs and metrics.
	Name() string

	// Score returns the per-signal contributions for item. Signals that
	// contribute nothing may be omitted.
	Score(item *models.ContentItem, prefs *models.Preferences, now time.Time) Breakdown
}
