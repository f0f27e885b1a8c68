// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package stats derives reading statistics from a visitor's session log.
//
// Everything here is a pure function of its inputs; callers pass the clock
// and the time zone that defines calendar days.
package stats

import (
	"time"

	"github.com/tomtom215/folio/internal/models"
)

// Compute derives ReadingStats from the full session list.
//
// Only sessions that ended with completed set count as read. Reading time is
// in minutes. The completion rate is taken over all ended sessions. The streak
// counts consecutive local calendar days with a completed session, walking
// back from today, or from yesterday when today has none yet.
func Compute(sessions []models.ReadingSession, now time.Time, loc *time.Location) models.ReadingStats {
	if loc == nil {
		loc = time.Local
	}

	var (
		completed    int
		ended        int
		totalMinutes float64
		days         = make(map[civilDate]struct{})
	)
	for i := range sessions {
		s := &sessions[i]
		if !s.Ended() {
			continue
		}
		ended++
		if !s.Completed {
			continue
		}
		completed++
		totalMinutes += s.Duration().Minutes()
		days[dateOf(s.StartTime, loc)] = struct{}{}
	}

	result := models.ReadingStats{
		TotalPostsRead:     completed,
		TotalReadingTime:   totalMinutes,
		ReadingStreak:      streak(days, dateOf(now, loc)),
		FavoriteCategories: []models.CategoryID{},
	}
	if completed > 0 {
		result.AverageReadingTime = totalMinutes / float64(completed)
	}
	if ended > 0 {
		result.CompletionRate = float64(completed) / float64(ended) * 100
	}
	return result
}

// Goals reports advisory progress against goals. It returns nil when no goal
// is set. Daily minutes count completed sessions that started today; weekly
// posts count completed sessions since Monday of the current week.
func Goals(sessions []models.ReadingSession, goals models.ReadingGoals, now time.Time, loc *time.Location) *models.GoalProgress {
	if goals.DailyMinutes == nil && goals.WeeklyPosts == nil {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}

	today := dateOf(now, loc)
	weekStart := today.addDays(-mondayOffset(now.In(loc).Weekday()))

	var minutesToday float64
	var postsThisWeek int
	for i := range sessions {
		s := &sessions[i]
		if !s.Ended() || !s.Completed {
			continue
		}
		day := dateOf(s.StartTime, loc)
		if day == today {
			minutesToday += s.Duration().Minutes()
		}
		if !day.before(weekStart) && !today.before(day) {
			postsThisWeek++
		}
	}

	progress := &models.GoalProgress{}
	if goals.DailyMinutes != nil {
		target := *goals.DailyMinutes
		progress.DailyMinutes = &models.GoalStatus{
			Target:   target,
			Current:  minutesToday,
			Achieved: minutesToday >= target,
		}
	}
	if goals.WeeklyPosts != nil {
		target := float64(*goals.WeeklyPosts)
		progress.WeeklyPosts = &models.GoalStatus{
			Target:   target,
			Current:  float64(postsThisWeek),
			Achieved: float64(postsThisWeek) >= target,
		}
	}
	return progress
}

func streak(days map[civilDate]struct{}, today civilDate) int {
	cursor := today
	if _, ok := days[cursor]; !ok {
		cursor = today.addDays(-1)
		if _, ok := days[cursor]; !ok {
			return 0
		}
	}

	n := 0
	for {
		if _, ok := days[cursor]; !ok {
			return n
		}
		n++
		cursor = cursor.addDays(-1)
	}
}

func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
