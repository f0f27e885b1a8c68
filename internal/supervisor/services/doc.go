// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package services provides suture.Service wrappers for Folio components.

Each wrapper implements the suture v4 Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the ListenAndServe pattern to Serve

Periodic jobs (PeriodicService), built with:
  - NewRetentionService: prunes ended sessions older than the retention age
    and invalidates cached engines afterwards
  - NewJanitorService: closes engines of idle visitors, ending their open
    reading sessions
  - NewCompactionService: reclaims badger value-log space

A periodic task error is logged and retried on the next tick; it never
crashes the service, so the supervisor only restarts on panics.
*/
package services
