// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package config provides centralized configuration management for Folio.

Configuration is layered with Koanf v2. Defaults come from a struct, then an
optional YAML file, then environment variables:

 1. defaultConfig()
 2. CONFIG_PATH, or the first of config.yaml, config.yml,
    /etc/folio/config.yaml, /etc/folio/config.yml
 3. mapped environment variables

# Sections

  - server: listener address, timeouts, environment mode
  - storage: backend (badger, sqlite, memory), path, circuit breaker
  - engine: visitor cache bounds, tick interval, timezone, thresholds
  - recommend: default and maximum result counts
  - retention: age limit and interval of the session pruner
  - catalog: source for GET /api/v1/recommendations (none, file, http)
  - security: CORS origins, rate limiting, visitor cookie
  - logging: level, format, caller

# Environment Variables

Only mapped variables are read; everything else in the environment is
ignored. A few common ones:

  - HTTP_PORT (default: 8420)
  - FOLIO_STORAGE_BACKEND (default: badger)
  - FOLIO_STORAGE_PATH (default: /data/folio)
  - FOLIO_TIMEZONE (default: server local time)
  - FOLIO_RETENTION_MAX_AGE (default: 8760h)
  - FOLIO_CATALOG_SOURCE, FOLIO_CATALOG_PATH, FOLIO_CATALOG_URL
  - CORS_ORIGINS (comma separated, default: *)
  - LOG_LEVEL, LOG_FORMAT

Durations use Go syntax (30s, 5m, 8760h).

# Example config.yaml

	server:
	  port: 8420
	storage:
	  backend: sqlite
	  path: /var/lib/folio/folio.db
	engine:
	  timezone: Europe/Berlin
	catalog:
	  source: http
	  url: https://blog.example.com/api/posts.json
	  ttl: 10m

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    return err
	}
	logging.Init(cfg.LoggingOptions())
	backend, err := storage.Open(ctx, cfg.StorageOpenConfig(), logger)

Helpers such as StorageOpenConfig and EngineOptions translate sections into
the option structs of the packages that consume them, so those packages
never import config.
*/
package config
