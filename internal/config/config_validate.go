// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks ranges and enums across every section.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validateServer,
		c.validateStorage,
		c.validateEngine,
		c.validateRecommend,
		c.validateRetention,
		c.validateCatalog,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

var validBackends = map[string]bool{
	"badger": true,
	"sqlite": true,
	"memory": true,
}

func (c *Config) validateStorage() error {
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("FOLIO_STORAGE_BACKEND must be one of: badger, sqlite, memory")
	}
	if c.Storage.Backend != "memory" && c.Storage.Path == "" {
		return fmt.Errorf("FOLIO_STORAGE_PATH is required for the %s backend", c.Storage.Backend)
	}
	if !c.Storage.BreakerDisabled && c.Storage.BreakerFailures == 0 {
		return fmt.Errorf("FOLIO_BREAKER_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateEngine() error {
	e := c.Engine
	if e.MaxVisitors < 1 {
		return fmt.Errorf("FOLIO_MAX_VISITORS must be at least 1")
	}
	if e.IdleTTL < 0 || e.TickInterval < 0 || e.SweepInterval < 0 {
		return fmt.Errorf("engine intervals must not be negative")
	}
	if e.CompletionThreshold < 0 || e.CompletionThreshold > 100 {
		return fmt.Errorf("FOLIO_COMPLETION_THRESHOLD must be between 0 and 100")
	}
	if e.HistoryThreshold < 0 || e.HistoryThreshold > 100 {
		return fmt.Errorf("FOLIO_HISTORY_THRESHOLD must be between 0 and 100")
	}
	if _, err := e.Location(); err != nil {
		return fmt.Errorf("FOLIO_TIMEZONE: %w", err)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if err := c.RecommendOptions().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

func (c *Config) validateRetention() error {
	if !c.Retention.Enabled {
		return nil
	}
	if c.Retention.MaxAge < time.Hour {
		return fmt.Errorf("FOLIO_RETENTION_MAX_AGE must be at least 1h")
	}
	if c.Retention.Interval < time.Minute {
		return fmt.Errorf("FOLIO_RETENTION_INTERVAL must be at least 1m")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case "none":
		return nil
	case "file":
		if c.Catalog.Path == "" {
			return fmt.Errorf("FOLIO_CATALOG_PATH is required when FOLIO_CATALOG_SOURCE=file")
		}
		return nil
	case "http":
		if c.Catalog.URL == "" {
			return fmt.Errorf("FOLIO_CATALOG_URL is required when FOLIO_CATALOG_SOURCE=http")
		}
		if err := validateHTTPURL(c.Catalog.URL, "FOLIO_CATALOG_URL"); err != nil {
			return err
		}
		if c.Catalog.TTL < 0 || c.Catalog.Timeout < 0 {
			return fmt.Errorf("catalog ttl and timeout must not be negative")
		}
		return nil
	default:
		return fmt.Errorf("FOLIO_CATALOG_SOURCE must be one of: none, file, http")
	}
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if c.Security.VisitorCookie == "" {
		return fmt.Errorf("FOLIO_VISITOR_COOKIE must not be empty")
	}
	if c.IsProduction() && c.hasWildcardCORS() && c.Security.CookieSecure {
		return fmt.Errorf("CORS_ORIGINS=* cannot be combined with secure visitor cookies in production; " +
			"set specific origins, e.g. CORS_ORIGINS=https://blog.example.com")
	}
	return c.validateRateLimits()
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard origin list in production, which is
// worth a startup warning.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
