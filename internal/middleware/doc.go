// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package middleware provides HTTP middleware for the Folio API.

All middleware has the chi signature func(http.Handler) http.Handler:

  - RequestID: request and correlation ids in context and X-Request-ID
  - AccessLog: one zerolog line per request, warn above the slow threshold
  - PrometheusMetrics: request count, latency and in-flight gauge labeled by
    chi route pattern
  - Compression: gzip for clients that accept it

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger, time.Second))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

PrometheusMetrics and AccessLog read the route pattern after the handler
returns, so they must be installed on the router itself, not wrapped around
it from outside.
*/
package middleware
