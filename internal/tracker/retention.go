// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/storage"
)

// PruneResult summarizes a retention pass over the whole store.
type PruneResult struct {
	Scanned   int
	Pruned    int
	Malformed int
	Visitors  int
}

// PruneBackend deletes ended sessions of every visitor that started before
// cutoff. Malformed session records are deleted as well. Open sessions are
// left alone.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func PruneBackend(ctx context.Context, backend storage.Backend, cutoff time.Time, logger zerolog.Logger) (PruneResult, error) {
	var result PruneResult

	entries, err := backend.List(ctx, storage.AllSessionsPrefix)
	if err != nil {
		return result, fmt.Errorf("list sessions: %w", err)
	}

	visitors := make(map[string]struct{})
	for _, e := range entries {
		visitorID, sessionID, ok := storage.ParseSessionKey(e.Key)
		if !ok {
			continue
		}
		result.Scanned++
		visitors[visitorID] = struct{}{}

		var session models.ReadingSession
		if err := json.Unmarshal(e.Value, &session); err != nil {
			result.Malformed++
		} else if !session.Ended() || !session.StartTime.Before(cutoff) {
			continue
		}

		if err := backend.Delete(ctx, e.Key); err != nil {
			return result, fmt.Errorf("delete session %s: %w", sessionID, err)
		}
		result.Pruned++
	}
	result.Visitors = len(visitors)

	logger.Info().
		Time("cutoff", cutoff).
		Int("scanned", result.Scanned).
		Int("pruned", result.Pruned).
		Int("malformed", result.Malformed).
		Int("visitors", result.Visitors).
		Msg("Session retention pass complete")
	return result, nil
}
