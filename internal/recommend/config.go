// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"fmt"

	"github.com/tomtom215/folio/internal/models"
)

// Config contains ranking limits.
type Config struct {
	// DefaultLimit is used when a request does not specify a limit. It may
	// not exceed models.RecommendationLimit.
	DefaultLimit int `koanf:"default_limit" json:"default_limit"`

	// MaxLimit caps any requested limit.
	MaxLimit int `koanf:"max_limit" json:"max_limit"`

	// MaxCandidates bounds how many catalog items are scored per request.
	// Items past the bound are ignored. Zero, the default, means no bound.
	MaxCandidates int `koanf:"max_candidates" json:"max_candidates"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: models.RecommendationLimit,
		MaxLimit:     50,
	}
}

// Validate checks that the limits are usable.
func (c Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.DefaultLimit > models.RecommendationLimit {
		return fmt.Errorf("default_limit must be at most %d, got %d", models.RecommendationLimit, c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit, got %d < %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.MaxCandidates < 0 {
		return fmt.Errorf("max_candidates must be non-negative, got %d", c.MaxCandidates)
	}
	return nil
}

// clampLimit resolves a requested limit against the configured bounds.
func (c Config) clampLimit(k int) int {
	if k <= 0 {
		return c.DefaultLimit
	}
	if k > c.MaxLimit {
		return c.MaxLimit
	}
	return k
}
