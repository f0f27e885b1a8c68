// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/validation"
)

// GetPreferences returns the visitor's preferences record.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs := h.engineFor(r).GetPreferences(r.Context())
	respondSuccess(w, r, http.StatusOK, prefs)
}

// UpdatePreferences merges a partial update into the visitor's preferences
// and returns the stored result.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var patch models.PreferencesPatch
	if !decodeAndValidate(w, r, &patch) {
		return
	}
	prefs := h.engineFor(r).UpdatePreferences(r.Context(), patch)
	respondSuccess(w, r, http.StatusOK, prefs)
}

// IsBookmarked reports whether the content item is bookmarked.
func (h *Handler) IsBookmarked(w http.ResponseWriter, r *http.Request) {
	id, ok := contentIDParam(w, r)
	if !ok {
		return
	}
	respondSuccess(w, r, http.StatusOK, BookmarkResponse{
		ContentID:  id,
		Bookmarked: h.engineFor(r).IsBookmarked(r.Context(), id),
	})
}

// ToggleBookmark flips the bookmark state of the content item.
func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := contentIDParam(w, r)
	if !ok {
		return
	}
	respondSuccess(w, r, http.StatusOK, BookmarkResponse{
		ContentID:  id,
		Bookmarked: h.engineFor(r).ToggleBookmark(r.Context(), id),
	})
}

// contentIDParam reads and validates the {contentID} path segment.
func contentIDParam(w http.ResponseWriter, r *http.Request) (models.ContentID, bool) {
	raw := chi.URLParam(r, "contentID")
	if verr := validation.ValidateVar("contentID", raw, "required,max=256"); verr != nil {
		apiErr := verr.ToAPIError()
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeInvalidParameter,
			Message: apiErr.Message,
			Details: apiErr.Details,
		})
		return "", false
	}
	return models.ContentID(raw), true
}
