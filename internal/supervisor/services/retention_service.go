// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/storage"
	"github.com/tomtom215/folio/internal/tracker"
)

// Invalidator drops cached visitor state so it is reloaded from storage.
// Satisfied by *engine.Manager.
type Invalidator interface {
	InvalidateAll()
}

// RetentionConfig holds configuration for the session retention job.
type RetentionConfig struct {
	// MaxAge is how long ended sessions are kept.
	MaxAge time.Duration

	// Interval between retention passes.
	Interval time.Duration

	// Now is the clock. Default: time.Now.
	Now func() time.Time
}

// NewRetentionService deletes ended sessions older than MaxAge across every
// visitor. Live engines are invalidated after a pass that removed anything,
// so their cached session maps do not resurrect pruned sessions.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRetentionService(backend storage.Backend, engines Invalidator, cfg RetentionConfig, logger zerolog.Logger) *PeriodicService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	task := func(ctx context.Context) error {
		cutoff := now().Add(-cfg.MaxAge)
		result, err := tracker.PruneBackend(ctx, backend, cutoff, logger)
		metrics.RecordRetentionRun(result.Pruned, err)
		if result.Pruned > 0 && engines != nil {
			engines.InvalidateAll()
		}
		return err
	}
	return NewPeriodicService(PeriodicConfig{
		Name:       "retention-service",
		Interval:   cfg.Interval,
		RunOnStart: true,
	}, task, logger)
}
