// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper closes idle visitor engines. Satisfied by *engine.Manager.
type Sweeper interface {
	Sweep() int
}

// NewJanitorService periodically closes engines of visitors that went idle,
// ending the reading sessions they left open.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewJanitorService(sweeper Sweeper, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	task := func(context.Context) error {
		if n := sweeper.Sweep(); n > 0 {
			logger.Debug().Int("evicted", n).Msg("Idle visitor engines closed")
		}
		return nil
	}
	return NewPeriodicService(PeriodicConfig{
		Name:     "janitor-service",
		Interval: interval,
	}, task, logger)
}
