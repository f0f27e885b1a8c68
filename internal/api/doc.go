// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package api provides the HTTP REST API layer for Folio.

Every endpoint under /api/v1 acts on behalf of one anonymous visitor and maps
onto a single engine.Engine method. Engines are obtained from an
engine.Manager, which keeps the most recently active visitors in memory.

Key Components:

  - Router: chi route tree and middleware stack
  - Handler: request handlers, one file per area
  - VisitorMiddleware: resolves the visitor id from header, cookie or a new UUID
  - ChiMiddleware: CORS (go-chi/cors) and rate limiting (go-chi/httprate)
  - Response formatting: models.APIResponse envelope with request metadata

Endpoints:

	GET    /api/v1/health/live                  liveness
	GET    /api/v1/health/ready                 readiness (storage ping)
	GET    /metrics                             Prometheus exposition

	GET    /api/v1/preferences                  current preferences
	PATCH  /api/v1/preferences                  partial update
	GET    /api/v1/bookmarks/{contentID}        bookmark state
	POST   /api/v1/bookmarks/{contentID}/toggle flip bookmark
	GET    /api/v1/reading/current              open session, if any
	POST   /api/v1/reading/start                {"contentId": "..."}
	POST   /api/v1/reading/progress             {"progress": 0-100}
	POST   /api/v1/reading/visibility           {"visible": bool}
	POST   /api/v1/reading/end                  close the open session
	POST   /api/v1/engagement                   {"category": "...", "signal": "read|liked|shared|bookmarked"}
	GET    /api/v1/recommendations              rank the configured catalog (?limit=&explain=)
	POST   /api/v1/recommendations              rank a catalog sent in the body
	GET    /api/v1/stats                        reading statistics
	GET    /api/v1/export                       export document as an attachment
	DELETE /api/v1/data                         erase everything held for the visitor

Response Format:

	{
	  "status": "success",
	  "data": { ... },
	  "metadata": {"timestamp": "...", "request_id": "...", "visitor_id": "..."}
	}

Errors use the same envelope with status "error" and an error object holding
a machine-readable code (INVALID_JSON, VALIDATION_ERROR, CATALOG_UNAVAILABLE,
...) and a message. Internal error details are logged, never returned.

Storage outages do not surface as HTTP errors: the engine keeps serving from
memory and the readiness probe reports 503 until the backend recovers.

Usage:

	h := api.NewHandler(api.HandlerConfig{
	    Manager: manager,
	    Catalog: cat,
	    Backend: backend,
	}, logger)
	router := api.NewRouter(h, api.RouterConfig{
	    Visitor:    api.VisitorConfig{CookieName: "folio_visitor"},
	    Middleware: api.NewChiMiddlewareFromSecurity(origins, 300, time.Minute, false),
	}, logger)
	srv := &http.Server{Addr: ":8420", Handler: router.SetupChi()}
*/
package api
