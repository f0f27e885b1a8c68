// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"fmt"
	"net/http"
	"time"
)

// GetReadingStats returns statistics derived from the visitor's sessions.
func (h *Handler) GetReadingStats(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.engineFor(r).GetReadingStats(r.Context()))
}

// ExportData streams the visitor's export document as a JSON attachment.
// The body is the raw snapshot, not wrapped in the response envelope, so the
// file can be archived as-is.
func (h *Handler) ExportData(w http.ResponseWriter, r *http.Request) {
	doc := h.engineFor(r).ExportData(r.Context())

	filename := fmt.Sprintf("folio-export-%s.json", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc)); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write export")
	}
}

// ClearData erases every record held for the visitor. An open reading
// session is discarded.
func (h *Handler) ClearData(w http.ResponseWriter, r *http.Request) {
	h.engineFor(r).ClearData(r.Context())
	respondSuccess(w, r, http.StatusOK, map[string]bool{"cleared": true})
}
