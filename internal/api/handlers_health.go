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
)

// readyPingTimeout bounds the storage ping done by the readiness probe.
const readyPingTimeout = 2 * time.Second

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only when the storage backend answers a ping. The engine
// keeps working in memory during an outage, but a replica that cannot
// persist should be taken out of rotation.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	storageOK := true
	if h.backend != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
		defer cancel()
		if err := h.backend.Ping(ctx); err != nil {
			storageOK = false
			h.logger.Warn().Err(err).Msg("Readiness check failed: storage ping")
		}
	}

	data := map[string]interface{}{
		"storage_connected": storageOK,
		"active_visitors":   h.manager.Len(),
		"ready_to_serve":    storageOK,
		"uptime":            time.Since(h.startTime).Seconds(),
	}

	if !storageOK {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "not_ready",
			Data:     data,
			Metadata: metadataFor(r),
			Error: &models.APIError{
				Code:    ErrCodeServiceUnavailable,
				Message: "storage backend unavailable",
			},
		})
		return
	}
	respondSuccess(w, r, http.StatusOK, data)
}
