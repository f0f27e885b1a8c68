// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"time"

	"github.com/tomtom215/folio/internal/models"
)

const (
	favoriteCategoryPoints = 10.0
	favoriteTagPoints      = 5.0
	likesDivisor           = 10.0
	viewsDivisor           = 100.0
	freshPoints            = 5.0
	freshWindow            = 7 * 24 * time.Hour
	veryFreshPoints        = 5.0
	veryFreshWindow        = 24 * time.Hour
)

// HeuristicScorer implements the additive popularity and affinity formula
// described in the package documentation.
type HeuristicScorer struct{}

// NewHeuristicScorer returns the default scorer.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// Name implements Scorer.
func (s *HeuristicScorer) Name() string { return "heuristic" }

// Score implements Scorer.
func (s *HeuristicScorer) Score(item *models.ContentItem, prefs *models.Preferences, now time.Time) Breakdown {
	b := make(Breakdown, 5)

	if item.Category != "" && prefs.IsFavoriteCategory(item.Category) {
		b[SignalCategory] = favoriteCategoryPoints
	}

	if len(item.Tags) > 0 && len(prefs.FavoriteTags) > 0 {
		favorite := make(map[models.TagID]struct{}, len(prefs.FavoriteTags))
		for _, t := range prefs.FavoriteTags {
			favorite[t] = struct{}{}
		}
		var matches int
		for _, t := range item.Tags {
			if _, ok := favorite[t]; ok {
				matches++
			}
		}
		if matches > 0 {
			b[SignalTags] = favoriteTagPoints * float64(matches)
		}
	}

	if item.Likes > 0 {
		b[SignalLikes] = float64(item.Likes) / likesDivisor
	}
	if item.Views > 0 {
		b[SignalViews] = float64(item.Views) / viewsDivisor
	}

	// Items dated in the future count as fresh.
	if !item.CreatedAt.IsZero() {
		age := now.Sub(item.CreatedAt)
		var recency float64
		if age < freshWindow {
			recency += freshPoints
		}
		if age < veryFreshWindow {
			recency += veryFreshPoints
		}
		if recency > 0 {
			b[SignalRecency] = recency
		}
	}

	return b
}
