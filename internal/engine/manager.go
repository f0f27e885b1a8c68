// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/cache"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/storage"
)

// ManagerConfig bounds the set of in-memory engines.
type ManagerConfig struct {
	// MaxVisitors is the most engines held at once. Default: 10000.
	MaxVisitors int

	// IdleTTL evicts engines untouched for this long. Zero disables idle
	// eviction.
	IdleTTL time.Duration

	// Engine is applied to every engine the manager creates.
	Engine Options
}

// Manager hands out one Engine per visitor id. Engines are created on first
// use and closed when evicted, which ends any session left open.
type Manager struct {
	backend storage.Backend
	ranker  *recommend.Ranker
	opts    Options
	logger  zerolog.Logger
	engines *cache.LRU[*Engine]
}

// NewManager creates a manager over backend. All engines share ranker.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewManager(backend storage.Backend, ranker *recommend.Ranker, cfg ManagerConfig, logger zerolog.Logger) *Manager {
	if cfg.MaxVisitors <= 0 {
		cfg.MaxVisitors = 10000
	}
	if ranker == nil {
		ranker = recommend.NewRanker(recommend.DefaultConfig(), nil, logger)
	}

	m := &Manager{
		backend: backend,
		ranker:  ranker,
		opts:    cfg.Engine,
		logger:  logger.With().Str("component", "engine_manager").Logger(),
	}
	m.engines = cache.NewLRU[*Engine](cfg.MaxVisitors, cfg.IdleTTL, m.onEvict)
	return m
}

// Get returns the engine for visitorID, creating it when needed.
func (m *Manager) Get(visitorID string) *Engine {
	e, created := m.engines.GetOrAdd(visitorID, func() *Engine {
		return New(m.backend, visitorID, m.ranker, m.opts, m.logger)
	})
	if created {
		metrics.SetActiveVisitors(m.engines.Len())
		m.logger.Debug().Str("visitor_id", visitorID).Msg("Visitor engine created")
	}
	return e
}

// Peek returns the engine for visitorID only if it is already in memory.
func (m *Manager) Peek(visitorID string) (*Engine, bool) {
	return m.engines.Peek(visitorID)
}

// Evict closes and drops the engine for visitorID.
func (m *Manager) Evict(visitorID string) bool {
	return m.engines.Remove(visitorID)
}

// Sweep closes engines idle past the TTL and returns how many it dropped.
func (m *Manager) Sweep() int {
	return m.engines.CleanupExpired()
}

// InvalidateAll makes every live engine reload from storage on next use.
// Called after storage is changed behind the engines' backs.
func (m *Manager) InvalidateAll() {
	for _, id := range m.engines.Keys() {
		if e, ok := m.engines.Peek(id); ok {
			e.Invalidate()
		}
	}
}

// Len returns the number of engines in memory.
func (m *Manager) Len() int {
	return m.engines.Len()
}

// Close closes every engine.
func (m *Manager) Close() {
	m.engines.Purge()
}

func (m *Manager) onEvict(visitorID string, e *Engine, reason cache.EvictReason) {
	e.Close(context.Background())
	metrics.RecordVisitorEviction()
	metrics.SetActiveVisitors(m.engines.Len())
	m.logger.Debug().
		Str("visitor_id", visitorID).
		Str("reason", reason.String()).
		Msg("Visitor engine evicted")
}
