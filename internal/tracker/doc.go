// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package tracker records reading sessions.

A session moves through NONE -> ACTIVE -> ENDED. Tracker owns the session map
of one visitor and persists each session under its own storage key; Reader
sits on top of it and owns the single active session together with the
visibility-driven tick timer.

Rules:

  - Progress is clamped to [0, 100] and is last-write-wins.
  - A session is completed while progress >= 90.
  - Ending a session with progress >= 20 adds its content to the reading history.
  - Progress and end events for unknown or ended sessions are ignored.

Session ids are "<contentId>-<unixMillis>"; a numeric suffix is appended when
two sessions for the same content start in the same millisecond.
*/
package tracker
