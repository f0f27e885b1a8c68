// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package logging provides the zerolog-based structured logger used across Folio.
//
// A single global logger is configured once at startup and component loggers
// are derived from it:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logger := logging.WithComponent("tracker")
//	logger.Info().Str("content_id", id).Msg("Reading session started")
//
// Request-scoped fields (request_id, correlation_id, visitor_id) travel in the
// context and are attached by Ctx:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("Preferences persist failed")
//
// # Supervisor integration
//
// Suture v4 logs through log/slog via sutureslog. NewSlogLogger returns an
// slog.Logger whose records are written by zerolog, so supervisor events land
// in the same JSON stream as everything else.
//
// # Environment
//
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
package logging
