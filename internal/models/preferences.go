// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

// HistoryLimit is the maximum number of entries kept in ReadingHistory.
const HistoryLimit = 100

// Default passthrough values.
const (
	DefaultTheme    = "system"
	DefaultLayout   = "grid"
	DefaultFontSize = "medium"
)

// ContentID identifies a content item (post).
type ContentID string

// CategoryID identifies a content category.
type CategoryID string

// TagID identifies a content tag.
type TagID string

// ReadingGoals are advisory targets. A nil field means no goal is set.
type ReadingGoals struct {
	DailyMinutes *float64 `json:"dailyMinutes,omitempty" validate:"omitempty,gte=0,lte=1440"`
	WeeklyPosts  *int     `json:"weeklyPosts,omitempty" validate:"omitempty,gte=0,lte=1000"`
}

// NotificationSettings is passthrough configuration for the notification UI.
type NotificationSettings struct {
	NewPosts     bool `json:"newPosts"`
	WeeklyDigest bool `json:"weeklyDigest"`
}

// ViewPreferences is passthrough configuration for the rendering layer.
type ViewPreferences struct {
	Layout       string `json:"layout" validate:"omitempty,max=32"`
	FontSize     string `json:"fontSize" validate:"omitempty,max=32"`
	ShowExcerpts bool   `json:"showExcerpts"`
}

// Preferences is the durable per-visitor settings record.
//
// ReadingHistory is most-recent-first, has no duplicates and holds at most
// HistoryLimit entries. Bookmarks, FavoriteCategories and FavoriteTags are
// sets.
type Preferences struct {
	ReadingHistory     []ContentID          `json:"readingHistory"`
	Bookmarks          []ContentID          `json:"bookmarks"`
	FavoriteCategories []CategoryID         `json:"favoriteCategories"`
	FavoriteTags       []TagID              `json:"favoriteTags"`
	ReadingGoals       ReadingGoals         `json:"readingGoals"`
	Notifications      NotificationSettings `json:"notifications"`
	Theme              string               `json:"theme"`
	ViewPreferences    ViewPreferences      `json:"viewPreferences"`
}

// DefaultPreferences returns the hardcoded defaults used when no record exists.
func DefaultPreferences() Preferences {
	return Preferences{
		ReadingHistory:     []ContentID{},
		Bookmarks:          []ContentID{},
		FavoriteCategories: []CategoryID{},
		FavoriteTags:       []TagID{},
		Notifications:      NotificationSettings{NewPosts: true},
		Theme:              DefaultTheme,
		ViewPreferences: ViewPreferences{
			Layout:       DefaultLayout,
			FontSize:     DefaultFontSize,
			ShowExcerpts: true,
		},
	}
}

// PreferencesPatch is a partial update. Nil fields are left untouched.
type PreferencesPatch struct {
	ReadingHistory     []ContentID           `json:"readingHistory,omitempty" validate:"omitempty,max=1000,dive,required,max=256"`
	Bookmarks          []ContentID           `json:"bookmarks,omitempty" validate:"omitempty,max=10000,dive,required,max=256"`
	FavoriteCategories []CategoryID          `json:"favoriteCategories,omitempty" validate:"omitempty,max=1000,dive,required,max=256"`
	FavoriteTags       []TagID               `json:"favoriteTags,omitempty" validate:"omitempty,max=1000,dive,required,max=256"`
	ReadingGoals       *ReadingGoals         `json:"readingGoals,omitempty"`
	Notifications      *NotificationSettings `json:"notifications,omitempty"`
	Theme              *string               `json:"theme,omitempty" validate:"omitempty,max=32"`
	ViewPreferences    *ViewPreferences      `json:"viewPreferences,omitempty"`
}

// Apply merges the patch over p field by field and returns the normalized
// result. p is not modified.
//
//nolint:gocritic // Preferences is passed by value to keep Apply side-effect free
func (patch PreferencesPatch) Apply(p Preferences) Preferences {
	out := p.Clone()
	if patch.ReadingHistory != nil {
		out.ReadingHistory = append([]ContentID(nil), patch.ReadingHistory...)
	}
	if patch.Bookmarks != nil {
		out.Bookmarks = append([]ContentID(nil), patch.Bookmarks...)
	}
	if patch.FavoriteCategories != nil {
		out.FavoriteCategories = append([]CategoryID(nil), patch.FavoriteCategories...)
	}
	if patch.FavoriteTags != nil {
		out.FavoriteTags = append([]TagID(nil), patch.FavoriteTags...)
	}
	if patch.ReadingGoals != nil {
		out.ReadingGoals = patch.ReadingGoals.clone()
	}
	if patch.Notifications != nil {
		out.Notifications = *patch.Notifications
	}
	if patch.Theme != nil {
		out.Theme = *patch.Theme
	}
	if patch.ViewPreferences != nil {
		out.ViewPreferences = *patch.ViewPreferences
	}
	out.Normalize()
	return out
}

// Normalize restores the list invariants in place: nil lists become empty,
// duplicates are dropped keeping the first occurrence and history is capped.
func (p *Preferences) Normalize() {
	p.ReadingHistory = dedupe(p.ReadingHistory)
	if len(p.ReadingHistory) > HistoryLimit {
		p.ReadingHistory = p.ReadingHistory[:HistoryLimit]
	}
	p.Bookmarks = dedupe(p.Bookmarks)
	p.FavoriteCategories = dedupe(p.FavoriteCategories)
	p.FavoriteTags = dedupe(p.FavoriteTags)
}

// Clone returns a deep copy.
//
//nolint:gocritic // value receiver keeps call sites simple
func (p Preferences) Clone() Preferences {
	out := p
	out.ReadingHistory = append([]ContentID{}, p.ReadingHistory...)
	out.Bookmarks = append([]ContentID{}, p.Bookmarks...)
	out.FavoriteCategories = append([]CategoryID{}, p.FavoriteCategories...)
	out.FavoriteTags = append([]TagID{}, p.FavoriteTags...)
	out.ReadingGoals = p.ReadingGoals.clone()
	return out
}

// HasBookmark reports whether id is bookmarked.
//
//nolint:gocritic // value receiver keeps call sites simple
func (p Preferences) HasBookmark(id ContentID) bool {
	return contains(p.Bookmarks, id)
}

// HasRead reports whether id is in the reading history.
//
//nolint:gocritic // value receiver keeps call sites simple
func (p Preferences) HasRead(id ContentID) bool {
	return contains(p.ReadingHistory, id)
}

// IsFavoriteCategory reports whether c is a favorite category.
//
//nolint:gocritic // value receiver keeps call sites simple
func (p Preferences) IsFavoriteCategory(c CategoryID) bool {
	return contains(p.FavoriteCategories, c)
}

// PushHistory moves id to the front of ReadingHistory, inserting it if absent,
// and trims the list to HistoryLimit.
func (p *Preferences) PushHistory(id ContentID) {
	history := make([]ContentID, 0, len(p.ReadingHistory)+1)
	history = append(history, id)
	for _, existing := range p.ReadingHistory {
		if existing != id {
			history = append(history, existing)
		}
	}
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	p.ReadingHistory = history
}

// ToggleBookmark flips bookmark membership and returns the new state.
func (p *Preferences) ToggleBookmark(id ContentID) bool {
	for i, existing := range p.Bookmarks {
		if existing == id {
			p.Bookmarks = append(p.Bookmarks[:i:i], p.Bookmarks[i+1:]...)
			return false
		}
	}
	p.Bookmarks = append(p.Bookmarks, id)
	return true
}

// AddFavoriteCategory adds c if absent and reports whether it was added.
func (p *Preferences) AddFavoriteCategory(c CategoryID) bool {
	if contains(p.FavoriteCategories, c) {
		return false
	}
	p.FavoriteCategories = append(p.FavoriteCategories, c)
	return true
}

func (g ReadingGoals) clone() ReadingGoals {
	var out ReadingGoals
	if g.DailyMinutes != nil {
		v := *g.DailyMinutes
		out.DailyMinutes = &v
	}
	if g.WeeklyPosts != nil {
		v := *g.WeeklyPosts
		out.WeeklyPosts = &v
	}
	return out
}

func dedupe[T comparable](in []T) []T {
	out := make([]T, 0, len(in))
	seen := make(map[T]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
