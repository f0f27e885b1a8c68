// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package engine composes the per-visitor personalization engine.

An Engine wires one preference store, one session tracker with its reader,
the shared ranker, the stats aggregator and the category learner for a single
visitor, and exposes the operations the UI layer calls:

	e := engine.New(backend, visitorID, ranker, engine.DefaultOptions(), logger)

	id := e.StartReading(ctx, "intro-to-go")
	e.UpdateReadingProgress(ctx, 95)
	e.EndReading(ctx)

	stats := e.GetReadingStats(ctx)
	recs := e.GetRecommendations(ctx, catalogItems)

Components never call each other directly: the tracker reaches the reading
history through the preference store, and everything else reads the stored
state. Engine operations do not return errors.

A Manager keeps engines for many visitors in a bounded LRU and closes them
on eviction, which ends any session the visitor left open.
*/
package engine
