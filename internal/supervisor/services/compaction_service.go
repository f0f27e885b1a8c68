// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package services

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/storage"
)

// NewCompactionService periodically reclaims space in backends that support
// it. Retention deletes leave garbage behind in badger's value log.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCompactionService(compactor storage.Compactor, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	return NewPeriodicService(PeriodicConfig{
		Name:     "compaction-service",
		Interval: interval,
	}, compactor.Compact, logger)
}
