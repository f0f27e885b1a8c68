// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// Ranker filters, scores and orders catalog items. It holds no per-visitor
// state and is safe for concurrent use.
type Ranker struct {
	config Config
	scorer Scorer
	now    func() time.Time
	logger zerolog.Logger
}

// NewRanker creates a ranker. A nil scorer falls back to HeuristicScorer and
// an invalid config falls back to DefaultConfig.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRanker(cfg Config, scorer Scorer, logger zerolog.Logger) *Ranker {
	if scorer == nil {
		scorer = NewHeuristicScorer()
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn().Err(err).Msg("Invalid ranker config, using defaults")
		cfg = DefaultConfig()
	}
	return &Ranker{
		config: cfg,
		scorer: scorer,
		now:    time.Now,
		logger: logger.With().Str("component", "ranker").Str("scorer", scorer.Name()).Logger(),
	}
}

// WithClock returns a copy of the ranker that reads the time from now.
func (r *Ranker) WithClock(now func() time.Time) *Ranker {
	cp := *r
	cp.now = now
	return &cp
}

// Rank returns up to limit recommendations for prefs, best first. Items in
// the reading history never appear. Items with equal scores keep their
// catalog order. A limit <= 0 uses the configured default.
func (r *Ranker) Rank(ctx context.Context, prefs models.Preferences, items []models.ContentItem, limit int) []models.Recommendation {
	start := time.Now()
	limit = r.config.clampLimit(limit)

	if r.config.MaxCandidates > 0 && len(items) > r.config.MaxCandidates {
		r.logger.Debug().
			Int("catalog_size", len(items)).
			Int("max_candidates", r.config.MaxCandidates).
			Msg("Catalog truncated to candidate bound")
		items = items[:r.config.MaxCandidates]
	}

	read := make(map[models.ContentID]struct{}, len(prefs.ReadingHistory))
	for _, id := range prefs.ReadingHistory {
		read[id] = struct{}{}
	}

	now := r.now()
	scored := make([]models.Recommendation, 0, len(items))
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		item := &items[i]
		if _, seen := read[item.ID]; seen {
			continue
		}
		breakdown := r.scorer.Score(item, &prefs, now)
		scored = append(scored, models.Recommendation{
			Item:   *item,
			Score:  breakdown.Total(),
			Scores: breakdown,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	elapsed := time.Since(start)
	metrics.RecordRecommendation(elapsed, len(scored))
	r.logger.Debug().
		Int("candidates", len(items)).
		Int("excluded", len(read)).
		Int("returned", len(scored)).
		Dur("duration", elapsed).
		Msg("Ranked recommendations")

	return scored
}

// Items strips the score breakdowns from recs.
func Items(recs []models.Recommendation) []models.ContentItem {
	out := make([]models.ContentItem, len(recs))
	for i := range recs {
		out[i] = recs[i].Item
	}
	return out
}
