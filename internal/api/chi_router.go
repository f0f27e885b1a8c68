// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/middleware"
)

// RouterConfig holds the settings of the HTTP surface.
type RouterConfig struct {
	Visitor       VisitorConfig
	SlowThreshold time.Duration
	// Middleware defaults to DefaultChiMiddlewareConfig when nil.
	Middleware *ChiMiddleware
}

// Router wires the handler into a chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	config        RouterConfig
	logger        zerolog.Logger
}

// NewRouter creates a new router.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRouter(handler *Handler, cfg RouterConfig, logger zerolog.Logger) *Router {
	mw := cfg.Middleware
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = middleware.DefaultSlowThreshold
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		config:        cfg,
		logger:        logger,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order. Recoverer sits inside the access log
	// so recovered panics are logged with their 500 status.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(router.logger, router.config.SlowThreshold))
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Visitor Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.Compression)
		r.Use(VisitorMiddleware(router.config.Visitor))

		r.Get("/preferences", router.handler.GetPreferences)
		r.Patch("/preferences", router.handler.UpdatePreferences)

		r.Get("/bookmarks/{contentID}", router.handler.IsBookmarked)
		r.Post("/bookmarks/{contentID}/toggle", router.handler.ToggleBookmark)

		r.Route("/reading", func(r chi.Router) {
			r.Get("/current", router.handler.CurrentSession)
			r.Post("/start", router.handler.StartReading)
			r.Post("/progress", router.handler.UpdateReadingProgress)
			r.Post("/visibility", router.handler.SetVisibility)
			r.Post("/end", router.handler.EndReading)
		})

		r.Post("/engagement", router.handler.RecordEngagement)

		r.Get("/recommendations", router.handler.GetRecommendations)
		r.Post("/recommendations", router.handler.PostRecommendations)

		r.Get("/stats", router.handler.GetReadingStats)
		r.Get("/export", router.handler.ExportData)
		r.Delete("/data", router.handler.ClearData)
	})

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "resource not found", nil)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
}
