// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"time"

	"github.com/tomtom215/folio/internal/catalog"
	"github.com/tomtom215/folio/internal/engine"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/storage"
	"github.com/tomtom215/folio/internal/tracker"
)

// StorageOpenConfig maps the storage section onto storage.Open.
func (c *Config) StorageOpenConfig() storage.OpenConfig {
	guard := storage.DefaultGuardConfig()
	guard.FailureThreshold = c.Storage.BreakerFailures
	guard.Timeout = c.Storage.BreakerTimeout
	guard.WarnInterval = c.Storage.WarnInterval
	if c.Storage.BreakerProbeReqs > 0 {
		guard.MaxRequests = c.Storage.BreakerProbeReqs
	}
	return storage.OpenConfig{
		Backend:    c.Storage.Backend,
		Path:       c.Storage.Path,
		SyncWrites: c.Storage.SyncWrites,
		Guard:      guard,
		Disabled:   c.Storage.BreakerDisabled,
	}
}

// EngineOptions maps the engine section onto engine.Options. The timezone
// has already been checked by Validate; an unknown zone falls back to local.
func (c *Config) EngineOptions() engine.Options {
	loc, err := c.Engine.Location()
	if err != nil {
		loc = time.Local
	}
	return engine.Options{
		Location:     loc,
		TickInterval: c.Engine.TickInterval,
		Tracker: tracker.Options{
			CompletionThreshold: c.Engine.CompletionThreshold,
			HistoryThreshold:    c.Engine.HistoryThreshold,
		},
	}
}

// ManagerConfig maps the engine section onto engine.ManagerConfig.
func (c *Config) ManagerConfig() engine.ManagerConfig {
	return engine.ManagerConfig{
		MaxVisitors: c.Engine.MaxVisitors,
		IdleTTL:     c.Engine.IdleTTL,
		Engine:      c.EngineOptions(),
	}
}

// RecommendOptions maps the recommend section onto recommend.Config.
func (c *Config) RecommendOptions() recommend.Config {
	return recommend.Config{
		DefaultLimit:  c.Recommend.DefaultLimit,
		MaxLimit:      c.Recommend.MaxLimit,
		MaxCandidates: c.Recommend.MaxCandidates,
	}
}

// CatalogOptions maps the catalog section onto catalog.Open.
func (c *Config) CatalogOptions() catalog.Options {
	return catalog.Options{
		Source:  c.Catalog.Source,
		Path:    c.Catalog.Path,
		URL:     c.Catalog.URL,
		TTL:     c.Catalog.TTL,
		Timeout: c.Catalog.Timeout,
	}
}

// LoggingOptions maps the logging section onto logging.Init.
func (c *Config) LoggingOptions() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
