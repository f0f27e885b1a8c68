// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package models defines the data structures shared by the Folio components.

Persisted records (Preferences, ReadingSession) and the export snapshot use
camelCase JSON keys so a snapshot can be read back by the browser client that
produced the original layout.

Key Components:

  - Preferences: per-visitor settings and accumulated lists (history, bookmarks, favorites)
  - ReadingSession: one visit to one content item, from start to end
  - ContentItem: read-only catalog entry consumed by the recommendation ranker
  - ReadingStats: statistics derived from the session map on demand
  - ExportSnapshot: the JSON document produced by a data export
  - APIResponse: standard HTTP response envelope

Invariants on Preferences are enforced by Normalize, which every writer calls
before persisting.
*/
package models
