// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/folio/config.yaml",
	"/etc/folio/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8420,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Storage: StorageConfig{
			Backend:          "badger",
			Path:             "/data/folio",
			SyncWrites:       false,
			BreakerFailures:  5,
			BreakerTimeout:   30 * time.Second,
			BreakerProbeReqs: 1,
			WarnInterval:     time.Minute,
			CompactInterval:  time.Hour,
		},
		Engine: EngineConfig{
			MaxVisitors:         10000,
			IdleTTL:             30 * time.Minute,
			SweepInterval:       time.Minute,
			TickInterval:        time.Second,
			Timezone:            "",
			CompletionThreshold: 90,
			HistoryThreshold:    20,
		},
		Recommend: RecommendConfig{
			DefaultLimit:  10,
			MaxLimit:      50,
			MaxCandidates: 0,
		},
		Retention: RetentionConfig{
			Enabled:  true,
			MaxAge:   365 * 24 * time.Hour,
			Interval: 24 * time.Hour,
		},
		Catalog: CatalogConfig{
			Source:  "none",
			TTL:     5 * time.Minute,
			Timeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			VisitorCookie:     "folio_visitor",
			CookieSecure:      false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	return load(FindConfigFile())
}

// LoadFile is LoadWithKoanf with an explicit config file. An empty path loads
// defaults and environment only.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment
	// FOLIO_STORAGE_BACKEND -> storage.backend
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the struct expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Storage
	"folio_storage_backend":     "storage.backend",
	"folio_storage_path":        "storage.path",
	"folio_storage_sync_writes": "storage.sync_writes",
	"folio_breaker_disabled":    "storage.breaker_disabled",
	"folio_breaker_failures":    "storage.breaker_failures",
	"folio_breaker_timeout":     "storage.breaker_timeout",
	"folio_storage_warn_every":  "storage.warn_interval",
	"folio_compact_interval":    "storage.compact_interval",

	// Engine
	"folio_max_visitors":         "engine.max_visitors",
	"folio_visitor_idle_ttl":     "engine.idle_ttl",
	"folio_sweep_interval":       "engine.sweep_interval",
	"folio_tick_interval":        "engine.tick_interval",
	"folio_timezone":             "engine.timezone",
	"folio_completion_threshold": "engine.completion_threshold",
	"folio_history_threshold":    "engine.history_threshold",

	// Recommendations
	"folio_recommend_limit":          "recommend.default_limit",
	"folio_recommend_max_limit":      "recommend.max_limit",
	"folio_recommend_max_candidates": "recommend.max_candidates",

	// Retention
	"folio_retention_enabled":  "retention.enabled",
	"folio_retention_max_age":  "retention.max_age",
	"folio_retention_interval": "retention.interval",

	// Catalog
	"folio_catalog_source":  "catalog.source",
	"folio_catalog_path":    "catalog.path",
	"folio_catalog_url":     "catalog.url",
	"folio_catalog_ttl":     "catalog.ttl",
	"folio_catalog_timeout": "catalog.timeout",

	// Security
	"cors_origins":         "security.cors_origins",
	"rate_limit_requests":  "security.rate_limit_reqs",
	"rate_limit_window":    "security.rate_limit_window",
	"disable_rate_limit":   "security.rate_limit_disabled",
	"folio_visitor_cookie": "security.visitor_cookie",
	"folio_cookie_secure":  "security.cookie_secure",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped, which keeps unrelated
// environment out of the config.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - FOLIO_STORAGE_BACKEND -> storage.backend
//   - FOLIO_RETENTION_MAX_AGE -> retention.max_age
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes. The
// caller reloads and swaps configuration under its own lock.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
