// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"

	"github.com/tomtom215/folio/internal/learner"
)

// StartReading ends any open session and starts one for the posted content id.
func (h *Handler) StartReading(w http.ResponseWriter, r *http.Request) {
	var req StartReadingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id := h.engineFor(r).StartReading(r.Context(), req.ContentID)
	if id == "" {
		// Evicted between lookup and use; the manager hands out a fresh engine.
		id = h.engineFor(r).StartReading(r.Context(), req.ContentID)
	}
	respondSuccess(w, r, http.StatusCreated, StartReadingResponse{SessionID: id})
}

// UpdateReadingProgress records scroll progress against the open session.
// Without an open session the update is dropped and recorded is false.
func (h *Handler) UpdateReadingProgress(w http.ResponseWriter, r *http.Request) {
	var req ProgressRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ok := h.engineFor(r).UpdateReadingProgress(r.Context(), *req.Progress)
	respondSuccess(w, r, http.StatusOK, ProgressResponse{Recorded: ok})
}

// SetVisibility pauses or resumes active-time accounting.
func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var req VisibilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.engineFor(r).SetVisibility(*req.Visible)
	respondSuccess(w, r, http.StatusOK, map[string]bool{"visible": *req.Visible})
}

// EndReading closes the open session and returns it.
func (h *Handler) EndReading(w http.ResponseWriter, r *http.Request) {
	session, ok := h.engineFor(r).EndReading(r.Context())
	resp := EndReadingResponse{Ended: ok}
	if ok {
		resp.Session = &session
	}
	respondSuccess(w, r, http.StatusOK, resp)
}

// CurrentSession returns the open session, if any.
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.engineFor(r).CurrentSession(r.Context())
	resp := CurrentSessionResponse{Active: ok}
	if ok {
		resp.Session = &session
	}
	respondSuccess(w, r, http.StatusOK, resp)
}

// RecordEngagement feeds an engagement signal into the category learner.
func (h *Handler) RecordEngagement(w http.ResponseWriter, r *http.Request) {
	var req EngagementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	signal, err := learner.ParseSignal(req.Signal)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, err.Error(), nil)
		return
	}

	promoted := h.engineFor(r).RecordEngagement(r.Context(), req.Category, signal)
	respondSuccess(w, r, http.StatusOK, EngagementResponse{Promoted: promoted})
}
