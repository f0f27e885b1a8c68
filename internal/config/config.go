// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: override any mapped setting
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	backend, err := storage.Open(ctx, cfg.StorageOpenConfig(), logger)
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Engine    EngineConfig    `koanf:"engine"`
	Recommend RecommendConfig `koanf:"recommend"`
	Retention RetentionConfig `koanf:"retention"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging or production
}

// Addr returns host:port for the listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// StorageConfig selects and tunes the persistence backend.
type StorageConfig struct {
	// Backend is badger (default), sqlite or memory.
	Backend string `koanf:"backend"`

	// Path is the badger directory or the sqlite file. Ignored for memory.
	Path string `koanf:"path"`

	// SyncWrites fsyncs every badger write.
	SyncWrites bool `koanf:"sync_writes"`

	// Circuit breaker around the backend.
	BreakerDisabled  bool          `koanf:"breaker_disabled"`
	BreakerFailures  uint32        `koanf:"breaker_failures"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout"`
	WarnInterval     time.Duration `koanf:"warn_interval"`
	CompactInterval  time.Duration `koanf:"compact_interval"`
	BreakerProbeReqs uint32        `koanf:"breaker_probe_requests"`
}

// EngineConfig tunes the per-visitor engines.
type EngineConfig struct {
	// MaxVisitors bounds the engines held in memory.
	MaxVisitors int `koanf:"max_visitors"`

	// IdleTTL evicts engines untouched for this long. 0 disables.
	IdleTTL time.Duration `koanf:"idle_ttl"`

	// SweepInterval is how often idle engines are evicted.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// TickInterval is the active-time sampling period.
	TickInterval time.Duration `koanf:"tick_interval"`

	// Timezone is an IANA name defining calendar days for streaks and goals.
	// Empty means the server's local zone.
	Timezone string `koanf:"timezone"`

	// Percent thresholds for completion and for entering the history.
	CompletionThreshold float64 `koanf:"completion_threshold"`
	HistoryThreshold    float64 `koanf:"history_threshold"`
}

// Location resolves Timezone.
func (e EngineConfig) Location() (*time.Location, error) {
	if e.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", e.Timezone, err)
	}
	return loc, nil
}

// RecommendConfig bounds ranking requests.
type RecommendConfig struct {
	DefaultLimit  int `koanf:"default_limit"`
	MaxLimit      int `koanf:"max_limit"`
	MaxCandidates int `koanf:"max_candidates"`
}

// RetentionConfig controls the background session pruner.
type RetentionConfig struct {
	Enabled  bool          `koanf:"enabled"`
	MaxAge   time.Duration `koanf:"max_age"`
	Interval time.Duration `koanf:"interval"`
}

// CatalogConfig points GET /recommendations at a content catalog.
type CatalogConfig struct {
	// Source is none, file or http.
	Source  string        `koanf:"source"`
	Path    string        `koanf:"path"`
	URL     string        `koanf:"url"`
	TTL     time.Duration `koanf:"ttl"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecurityConfig holds browser-facing protections.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// VisitorCookie names the cookie carrying the visitor id.
	VisitorCookie string `koanf:"visitor_cookie"`

	// CookieSecure sets the Secure flag on the visitor cookie.
	CookieSecure bool `koanf:"cookie_secure"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
