// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
handler_context.go - Visitor identity for API handlers

Folio has no accounts. Every request belongs to an anonymous visitor whose id
is taken from, in order:

  - the X-Visitor-ID header
  - the visitor cookie (folio_visitor by default)
  - a freshly minted UUID

Ids that fail validation.IsVisitorID are ignored. The resolved id is echoed in
the X-Visitor-ID response header and, when it did not come from the cookie,
written back as a long-lived cookie.

Usage:

	func (h *Handler) SomeHandler(w http.ResponseWriter, r *http.Request) {
	    e := h.manager.Get(VisitorIDFromRequest(r))
	    ...
	}
*/

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/validation"
)

// VisitorHeader carries the visitor id in both directions.
const VisitorHeader = "X-Visitor-ID"

// DefaultVisitorCookie is the cookie name used when none is configured.
const DefaultVisitorCookie = "folio_visitor"

// visitorCookieMaxAge keeps the anonymous identity for about a year.
const visitorCookieMaxAge = 365 * 24 * time.Hour

type visitorContextKey struct{}

// VisitorConfig controls how visitor ids are resolved and persisted.
type VisitorConfig struct {
	CookieName   string
	CookieSecure bool
}

// VisitorMiddleware resolves the visitor id and stores it in the request
// context.
func VisitorMiddleware(cfg VisitorConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultVisitorCookie
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, fromCookie := resolveVisitorID(r, cfg.CookieName)

			if !fromCookie {
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(visitorCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(VisitorHeader, id)

			ctx := context.WithValue(r.Context(), visitorContextKey{}, id)
			ctx = logging.ContextWithVisitorID(ctx, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveVisitorID returns the visitor id and whether it matched the cookie
// already set on the client.
func resolveVisitorID(r *http.Request, cookieName string) (string, bool) {
	var cookieValue string
	if c, err := r.Cookie(cookieName); err == nil {
		cookieValue = c.Value
	}

	if id := r.Header.Get(VisitorHeader); validation.IsVisitorID(id) {
		return id, id == cookieValue
	}
	if validation.IsVisitorID(cookieValue) {
		return cookieValue, true
	}
	return uuid.New().String(), false
}

// VisitorIDFromRequest returns the id set by VisitorMiddleware.
func VisitorIDFromRequest(r *http.Request) string {
	return VisitorIDFromContext(r.Context())
}

// VisitorIDFromContext returns the id set by VisitorMiddleware, or "".
func VisitorIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(visitorContextKey{}).(string); ok {
		return id
	}
	return ""
}
