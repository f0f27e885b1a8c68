// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import "time"

// ReadingStats is derived on demand from the full session map.
//
// TotalReadingTime and AverageReadingTime are in minutes. CompletionRate is a
// percentage of ended sessions. FavoriteCategories is always empty: sessions
// do not carry a category.
type ReadingStats struct {
	TotalPostsRead     int           `json:"totalPostsRead"`
	TotalReadingTime   float64       `json:"totalReadingTime"`
	AverageReadingTime float64       `json:"averageReadingTime"`
	CompletionRate     float64       `json:"completionRate"`
	ReadingStreak      int           `json:"readingStreak"`
	FavoriteCategories []CategoryID  `json:"favoriteCategories"`
	Goals              *GoalProgress `json:"goals,omitempty"`
}

// GoalProgress reports advisory progress against ReadingGoals. Only the goals
// that are set appear.
type GoalProgress struct {
	DailyMinutes *GoalStatus `json:"dailyMinutes,omitempty"`
	WeeklyPosts  *GoalStatus `json:"weeklyPosts,omitempty"`
}

// GoalStatus is the current value against a target.
type GoalStatus struct {
	Target   float64 `json:"target"`
	Current  float64 `json:"current"`
	Achieved bool    `json:"achieved"`
}

// ExportSchemaVersion is written into every ExportSnapshot.
const ExportSchemaVersion = 1

// ExportSnapshot is the document produced by a data export.
type ExportSnapshot struct {
	SchemaVersion int                       `json:"schemaVersion"`
	Preferences   Preferences               `json:"preferences"`
	Sessions      map[string]ReadingSession `json:"sessions"`
	Stats         ReadingStats              `json:"stats"`
	ExportDate    time.Time                 `json:"exportDate"`
}
