// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import "time"

// ContentItem is a catalog entry as seen by the ranker. Zero values mean the
// signal is unknown and contributes nothing to the score.
type ContentItem struct {
	ID        ContentID  `json:"id" validate:"required,max=256"`
	Category  CategoryID `json:"category,omitempty" validate:"max=256"`
	Tags      []TagID    `json:"tags,omitempty" validate:"max=100"`
	Likes     int64      `json:"likes,omitempty" validate:"gte=0"`
	Views     int64      `json:"views,omitempty" validate:"gte=0"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
	Title     string     `json:"title,omitempty"`
	Slug      string     `json:"slug,omitempty"`
}

// RecommendationLimit is the most items a plain recommendation request
// returns.
const RecommendationLimit = 10

// Recommendation is a ranked catalog item with its score breakdown.
type Recommendation struct {
	Item   ContentItem        `json:"item"`
	Score  float64            `json:"score"`
	Scores map[string]float64 `json:"scores,omitempty"`
}
