// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
)

// OpenConfig selects and configures a backend.
type OpenConfig struct {
	// Backend is one of "badger", "sqlite" or "memory".
	Backend string

	// Path is the badger directory or the sqlite file.
	Path string

	// SyncWrites applies to badger only.
	SyncWrites bool

	// Guard configures the circuit breaker. Guarding is skipped when Disabled.
	Guard    GuardConfig
	Disabled bool
}

// Open creates the configured backend and wraps it with the circuit breaker.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(ctx context.Context, cfg OpenConfig, logger zerolog.Logger) (Backend, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Backend {
	case BackendBadger, "":
		backend, err = OpenBadger(BadgerOptions{Path: cfg.Path, SyncWrites: cfg.SyncWrites})
	case BackendSQLite:
		path := cfg.Path
		if filepath.Ext(path) == "" && path != ":memory:" {
			path = filepath.Join(path, "folio.db")
		}
		backend, err = OpenSQLite(ctx, path)
	case BackendMemory:
		backend = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("backend", cfg.Backend).
		Str("path", cfg.Path).
		Msg("Storage backend opened")

	if cfg.Disabled {
		return backend, nil
	}
	return NewGuarded(backend, cfg.Guard, logger), nil
}
