// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package cache provides a generic thread-safe LRU cache with idle expiry.

The server keeps one engine per visitor in memory. LRU bounds how many are
held at once and drops visitors that have been idle longer than the TTL,
handing each dropped value to an eviction callback so it can be closed.

# Usage

	engines := cache.NewLRU[*engine.Engine](10000, 30*time.Minute,
	    func(key string, e *engine.Engine, reason cache.EvictReason) {
	        e.Close(context.Background())
	    })

	e, created := engines.GetOrAdd(visitorID, func() *engine.Engine {
	    return engine.New(...)
	})

# Expiry

The TTL is refreshed on every Get and GetOrAdd. Expired entries are removed
lazily when touched and in bulk by CleanupExpired, which a background janitor
calls periodically.

# Thread Safety

All methods are safe for concurrent use. Eviction callbacks run after the
internal lock is released, so they may call back into the cache.
*/
package cache
