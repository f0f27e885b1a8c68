// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package recommend ranks catalog items against a visitor's preferences.
//
// # Architecture
//
// Ranking is split in two:
//
//   - A Scorer turns one item plus the preferences into a per-signal score
//     breakdown. HeuristicScorer is the production formula.
//   - The Ranker owns everything around scoring: it drops items the visitor
//     has already read, sorts by total score (ties keep catalog order) and
//     truncates to the requested limit.
//
// # Heuristic Formula
//
// Starting from zero, an item earns:
//
//   - 10 when its category is a favorite category
//   - 5 for every one of its tags that is a favorite tag
//   - likes / 10
//   - views / 100
//   - 5 when it is less than 7 days old, plus another 5 under one day
//
// Signals are not normalized against each other, so a very popular item can
// outrank a favorite-category item. Swap the Scorer to change that.
//
// # Usage
//
//	ranker := recommend.NewRanker(recommend.DefaultConfig(), recommend.NewHeuristicScorer(), logger)
//	recs := ranker.Rank(ctx, prefs, catalogItems, 0)
package recommend
