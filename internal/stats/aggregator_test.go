// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package stats

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/folio/internal/models"
)

// session builds an ended session of the given length starting at start.
func session(id string, start time.Time, minutes float64, completed bool) models.ReadingSession {
	end := start.Add(time.Duration(minutes * float64(time.Minute)))
	return models.ReadingSession{
		ID:        id,
		ContentID: models.ContentID(id),
		StartTime: start,
		EndTime:   &end,
		Completed: completed,
	}
}

func TestCompute_Empty(t *testing.T) {
	t.Parallel()

	got := Compute(nil, time.Now(), time.UTC)
	if got.TotalPostsRead != 0 || got.AverageReadingTime != 0 || got.CompletionRate != 0 || got.ReadingStreak != 0 {
		t.Errorf("Compute(nil) = %+v, want zero stats", got)
	}
	if got.FavoriteCategories == nil || len(got.FavoriteCategories) != 0 {
		t.Errorf("FavoriteCategories = %v, want empty non-nil", got.FavoriteCategories)
	}
}

func TestCompute_Totals(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)
	base := now.Add(-2 * time.Hour)
	open := models.ReadingSession{ID: "open", StartTime: base, Completed: true}

	sessions := []models.ReadingSession{
		session("a", base, 4, true),
		session("b", base, 6, true),
		session("c", base, 30, false),
		session("d", base, 1, false),
		open,
	}

	got := Compute(sessions, now, time.UTC)
	if got.TotalPostsRead != 2 {
		t.Errorf("TotalPostsRead = %d, want 2", got.TotalPostsRead)
	}
	if math.Abs(got.TotalReadingTime-10) > 1e-9 {
		t.Errorf("TotalReadingTime = %v, want 10", got.TotalReadingTime)
	}
	if math.Abs(got.AverageReadingTime-5) > 1e-9 {
		t.Errorf("AverageReadingTime = %v, want 5", got.AverageReadingTime)
	}
	if math.Abs(got.CompletionRate-50) > 1e-9 {
		t.Errorf("CompletionRate = %v, want 50 (open sessions excluded)", got.CompletionRate)
	}
}

func TestCompute_OnlyOpenSessions(t *testing.T) {
	t.Parallel()

	sessions := []models.ReadingSession{{ID: "x", StartTime: time.Now()}}
	got := Compute(sessions, time.Now(), time.UTC)
	if got.CompletionRate != 0 || got.AverageReadingTime != 0 {
		t.Errorf("Compute(open only) = %+v, want zero rates", got)
	}
}

func TestCompute_Streak(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset).Add(-time.Hour) }

	tests := []struct {
		name     string
		sessions []models.ReadingSession
		want     int
	}{
		{
			name: "today, yesterday and the day before",
			sessions: []models.ReadingSession{
				session("t", day(0), 5, true),
				session("y", day(-1), 5, true),
				session("b", day(-2), 5, true),
			},
			want: 3,
		},
		{
			name: "only three and four days ago",
			sessions: []models.ReadingSession{
				session("a", day(-3), 5, true),
				session("b", day(-4), 5, true),
			},
			want: 0,
		},
		{
			name: "streak ending yesterday",
			sessions: []models.ReadingSession{
				session("y", day(-1), 5, true),
				session("b", day(-2), 5, true),
			},
			want: 2,
		},
		{
			name: "gap breaks the run",
			sessions: []models.ReadingSession{
				session("t", day(0), 5, true),
				session("gap", day(-2), 5, true),
			},
			want: 1,
		},
		{
			name: "incomplete sessions do not count",
			sessions: []models.ReadingSession{
				session("t", day(0), 5, false),
				session("y", day(-1), 5, true),
			},
			want: 1,
		},
		{
			name: "several sessions on one day count once",
			sessions: []models.ReadingSession{
				session("t1", day(0), 5, true),
				session("t2", day(0).Add(-time.Hour), 5, true),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Compute(tt.sessions, now, time.UTC).ReadingStreak; got != tt.want {
				t.Errorf("ReadingStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompute_StreakUsesLocalDays(t *testing.T) {
	t.Parallel()

	// 23:30 UTC on June 9 is already June 10 in Tokyo.
	tokyo := time.FixedZone("JST", 9*3600)
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, tokyo)
	sessions := []models.ReadingSession{
		session("late", time.Date(2026, 6, 9, 23, 30, 0, 0, time.UTC), 5, true),
	}

	if got := Compute(sessions, now, tokyo).ReadingStreak; got != 1 {
		t.Errorf("ReadingStreak(JST) = %d, want 1", got)
	}
	if got := Compute(sessions, now, time.UTC).ReadingStreak; got != 1 {
		t.Errorf("ReadingStreak(UTC) = %d, want 1 (yesterday)", got)
	}
}

func TestCompute_StreakAcrossMonthBoundary(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sessions := []models.ReadingSession{
		session("mar1", time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), 5, true),
		session("feb28", time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC), 5, true),
		session("feb27", time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC), 5, true),
	}
	if got := Compute(sessions, now, time.UTC).ReadingStreak; got != 3 {
		t.Errorf("ReadingStreak = %d, want 3", got)
	}
}

func TestGoals(t *testing.T) {
	t.Parallel()

	// Wednesday.
	now := time.Date(2026, 6, 10, 20, 0, 0, 0, time.UTC)
	sessions := []models.ReadingSession{
		session("today1", now.Add(-3*time.Hour), 12, true),
		session("today2", now.Add(-2*time.Hour), 8, true),
		session("monday", time.Date(2026, 6, 8, 9, 0, 0, 0, time.UTC), 5, true),
		session("sunday", time.Date(2026, 6, 7, 9, 0, 0, 0, time.UTC), 5, true),
		session("partial", now.Add(-time.Hour), 30, false),
	}

	if Goals(sessions, models.ReadingGoals{}, now, time.UTC) != nil {
		t.Error("Goals() with no goals should be nil")
	}

	daily := 15.0
	weekly := 5
	got := Goals(sessions, models.ReadingGoals{DailyMinutes: &daily, WeeklyPosts: &weekly}, now, time.UTC)
	if got == nil || got.DailyMinutes == nil || got.WeeklyPosts == nil {
		t.Fatalf("Goals() = %+v, want both goals", got)
	}
	if math.Abs(got.DailyMinutes.Current-20) > 1e-9 || !got.DailyMinutes.Achieved {
		t.Errorf("DailyMinutes = %+v, want current 20 achieved", got.DailyMinutes)
	}
	if got.WeeklyPosts.Current != 3 || got.WeeklyPosts.Achieved {
		t.Errorf("WeeklyPosts = %+v, want current 3 not achieved", got.WeeklyPosts)
	}
}

func TestMondayOffset(t *testing.T) {
	t.Parallel()

	want := map[time.Weekday]int{
		time.Monday: 0, time.Tuesday: 1, time.Wednesday: 2, time.Thursday: 3,
		time.Friday: 4, time.Saturday: 5, time.Sunday: 6,
	}
	for wd, off := range want {
		if got := mondayOffset(wd); got != off {
			t.Errorf("mondayOffset(%v) = %d, want %d", wd, got, off)
		}
	}
}
