// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package storage provides the durable key/value layer behind the preference
// store and the session tracker.
//
// Three backends implement Backend:
//
//   - BadgerBackend: embedded BadgerDB, the default for the server
//   - SQLiteBackend: a single-table SQLite database (pure Go driver)
//   - MemoryBackend: process-local map for tests and ephemeral deployments
//
// Guarded wraps any backend with a circuit breaker so a failing disk is not
// hit on every reading event; callers treat every error as "storage
// unavailable" and continue in memory.
//
// Records are namespaced per visitor:
//
//	prefs:<visitor>                  preferences record
//	session:<visitor>:<session id>   one reading session
package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by Get when the key does not exist.
	ErrNotFound = errors.New("storage: key not found")

	// ErrUnavailable is returned when the backend cannot be reached, including
	// while the circuit breaker is open.
	ErrUnavailable = errors.New("storage: backend unavailable")

	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("storage: backend closed")
)

// Backend type names accepted by Open.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Entry is a key/value pair returned by List.
type Entry struct {
	Key   string
	Value []byte
}

// Backend is a byte-oriented key/value store. Implementations must be safe
// for concurrent use and must return copies of stored values.
type Backend interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is not an error when key is absent.
	Delete(ctx context.Context, key string) error
	// List returns all entries whose key starts with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]Entry, error)
	// DeletePrefix removes all keys starting with prefix and returns the count.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	// Ping verifies the backend can serve requests.
	Ping(ctx context.Context) error
	Close() error
}

// Compactor is implemented by backends that can reclaim space after bulk
// deletes.
type Compactor interface {
	Compact(ctx context.Context) error
}

const (
	prefsPrefix   = "prefs:"
	sessionPrefix = "session:"
)

// PreferencesKey returns the key of a visitor's preferences record.
func PreferencesKey(visitorID string) string {
	return prefsPrefix + visitorID
}

// SessionsPrefix returns the key prefix shared by all of a visitor's sessions.
func SessionsPrefix(visitorID string) string {
	return sessionPrefix + visitorID + ":"
}

// SessionKey returns the key of one reading session.
func SessionKey(visitorID, sessionID string) string {
	return SessionsPrefix(visitorID) + sessionID
}

// AllSessionsPrefix matches every session of every visitor.
const AllSessionsPrefix = sessionPrefix

// ParseSessionKey splits a session key into visitor and session id.
// Visitor ids never contain ':'.
func ParseSessionKey(key string) (visitorID, sessionID string, ok bool) {
	rest, found := strings.CutPrefix(key, sessionPrefix)
	if !found {
		return "", "", false
	}
	visitorID, sessionID, ok = strings.Cut(rest, ":")
	if !ok || visitorID == "" || sessionID == "" {
		return "", "", false
	}
	return visitorID, sessionID, true
}
