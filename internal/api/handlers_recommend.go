// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/recommend"
)

// catalogTimeout bounds a catalog load made on behalf of one request.
const catalogTimeout = 10 * time.Second

// GetRecommendations handles GET /api/v1/recommendations
// Ranks the configured catalog for the visitor. Query parameters:
//   - limit: number of items (default and cap come from the ranker config)
//   - explain: include the score and per-signal breakdown of each item
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	limit, ok := getIntParam(r, "limit", 0)
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, "limit must be an integer", nil)
		return
	}
	q := RecommendationsQuery{Limit: limit, Explain: getBoolParam(r, "explain")}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogTimeout)
	defer cancel()

	items, err := h.catalog.ListAll(ctx)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, ErrCodeCatalogUnavailable, "content catalog unavailable", err)
		return
	}

	h.respondRecommendations(w, r, items, q.Limit, q.Explain)
}

// PostRecommendations handles POST /api/v1/recommendations
// Ranks a catalog supplied in the request body, for clients that already
// hold the post list.
func (h *Handler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.respondRecommendations(w, r, req.Items, req.Limit, req.Explain)
}

func (h *Handler) respondRecommendations(w http.ResponseWriter, r *http.Request, items []models.ContentItem, limit int, explain bool) {
	recs := h.engineFor(r).Recommend(r.Context(), items, limit)
	if explain {
		respondSuccess(w, r, http.StatusOK, recs)
		return
	}
	respondSuccess(w, r, http.StatusOK, recommend.Items(recs))
}
