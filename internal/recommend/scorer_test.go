// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/folio/internal/models"
)

func TestHeuristicScorer(t *testing.T) {
	t.Parallel()

	prefs := models.DefaultPreferences()
	prefs.FavoriteCategories = []models.CategoryID{"go"}
	prefs.FavoriteTags = []models.TagID{"concurrency", "testing"}

	tests := []struct {
		name      string
		item      models.ContentItem
		wantTotal float64
		wantKeys  []string
	}{
		{
			name:      "no signals",
			item:      models.ContentItem{ID: "a"},
			wantTotal: 0,
		},
		{
			name:      "favorite category",
			item:      models.ContentItem{ID: "a", Category: "go"},
			wantTotal: 10,
			wantKeys:  []string{SignalCategory},
		},
		{
			name:      "two favorite tags",
			item:      models.ContentItem{ID: "a", Tags: []models.TagID{"concurrency", "testing", "misc"}},
			wantTotal: 10,
			wantKeys:  []string{SignalTags},
		},
		{
			name:      "likes and views",
			item:      models.ContentItem{ID: "a", Likes: 25, Views: 350},
			wantTotal: 2.5 + 3.5,
			wantKeys:  []string{SignalLikes, SignalViews},
		},
		{
			name:      "three days old",
			item:      models.ContentItem{ID: "a", CreatedAt: testNow.Add(-72 * time.Hour)},
			wantTotal: 5,
			wantKeys:  []string{SignalRecency},
		},
		{
			name:      "one hour old stacks both bonuses",
			item:      models.ContentItem{ID: "a", CreatedAt: testNow.Add(-time.Hour)},
			wantTotal: 10,
			wantKeys:  []string{SignalRecency},
		},
		{
			name:      "exactly seven days old",
			item:      models.ContentItem{ID: "a", CreatedAt: testNow.Add(-7 * 24 * time.Hour)},
			wantTotal: 0,
		},
		{
			name: "everything",
			item: models.ContentItem{
				ID: "a", Category: "go", Tags: []models.TagID{"testing"},
				Likes: 10, Views: 100, CreatedAt: testNow.Add(-2 * time.Hour),
			},
			wantTotal: 10 + 5 + 1 + 1 + 10,
			wantKeys:  []string{SignalCategory, SignalTags, SignalLikes, SignalViews, SignalRecency},
		},
	}

	s := NewHeuristicScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := s.Score(&tt.item, &prefs, testNow)
			if got := b.Total(); math.Abs(got-tt.wantTotal) > 1e-9 {
				t.Errorf("Total() = %v, want %v (breakdown %v)", got, tt.wantTotal, b)
			}
			if len(b) != len(tt.wantKeys) {
				t.Errorf("breakdown = %v, want keys %v", b, tt.wantKeys)
			}
			for _, k := range tt.wantKeys {
				if _, ok := b[k]; !ok {
					t.Errorf("breakdown missing %q: %v", k, b)
				}
			}
		})
	}
}

func TestHeuristicScorer_NoFavoritesNoAffinity(t *testing.T) {
	t.Parallel()

	prefs := models.DefaultPreferences()
	item := models.ContentItem{ID: "a", Category: "go", Tags: []models.TagID{"testing"}}
	if got := NewHeuristicScorer().Score(&item, &prefs, testNow).Total(); got != 0 {
		t.Errorf("Total() = %v, want 0 without favorites", got)
	}
}
