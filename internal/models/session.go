// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import "time"

// Session thresholds, in percent.
const (
	// CompletionThreshold marks a session completed once progress reaches it.
	CompletionThreshold = 90.0

	// HistoryThreshold is the progress at which an ended session is added to
	// the reading history.
	HistoryThreshold = 20.0
)

// ReadingSession records one visit to one content item.
//
// A session is ACTIVE while EndTime is nil and ENDED afterwards. Progress is
// last-write-wins and may decrease.
type ReadingSession struct {
	ID                 string     `json:"id"`
	ContentID          ContentID  `json:"contentId"`
	StartTime          time.Time  `json:"startTime"`
	EndTime            *time.Time `json:"endTime,omitempty"`
	ProgressPercentage float64    `json:"progressPercentage"`
	Completed          bool       `json:"completed"`

	// ActiveSeconds is visible reading time counted by the reader tick.
	ActiveSeconds float64 `json:"activeSeconds,omitempty"`
}

// Ended reports whether the session has an end time.
//
//nolint:gocritic // value receiver keeps call sites simple
func (s ReadingSession) Ended() bool {
	return s.EndTime != nil
}

// Duration is EndTime - StartTime, or zero for an open session.
//
//nolint:gocritic // value receiver keeps call sites simple
func (s ReadingSession) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Clone returns a copy that does not share the EndTime pointer.
//
//nolint:gocritic // value receiver keeps call sites simple
func (s ReadingSession) Clone() ReadingSession {
	out := s
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	return out
}

// ClampProgress bounds pct to [0, 100].
func ClampProgress(pct float64) float64 {
	switch {
	case pct != pct: // NaN
		return 0
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}
