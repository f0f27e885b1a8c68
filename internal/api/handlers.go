// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/catalog"
	"github.com/tomtom215/folio/internal/engine"
	"github.com/tomtom215/folio/internal/storage"
)

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response and decoding helpers
//   - handlers_health.go: liveness and readiness probes
//   - handlers_preferences.go: preferences and bookmarks
//   - handlers_reading.go: reading sessions and engagement
//   - handlers_recommend.go: recommendations
//   - handlers_data.go: stats, export and erase
type Handler struct {
	manager   *engine.Manager
	catalog   catalog.Catalog
	backend   storage.Backend
	logger    zerolog.Logger
	startTime time.Time
}

// HandlerConfig lists the handler's collaborators. Catalog may be nil, in
// which case GET /recommendations always returns an empty list.
type HandlerConfig struct {
	Manager *engine.Manager
	Catalog catalog.Catalog
	Backend storage.Backend
}

// NewHandler creates the API handler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(cfg HandlerConfig, logger zerolog.Logger) *Handler {
	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.NewStatic(nil)
	}
	return &Handler{
		manager:   cfg.Manager,
		catalog:   cat,
		backend:   cfg.Backend,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}

// engineFor returns the engine of the visitor resolved by VisitorMiddleware.
func (h *Handler) engineFor(r *http.Request) *engine.Engine {
	return h.manager.Get(VisitorIDFromRequest(r))
}
