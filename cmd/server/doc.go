// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package main is the entry point for the Folio server.

Folio tracks how anonymous visitors read a blog, learns which categories they
care about, and ranks content for them. Each visitor gets an engine holding
their preferences and the open reading session; engines are persisted through
a pluggable key-value backend.

# Application Architecture

Services run under a Suture v4 supervisor tree:

	RootSupervisor ("folio")
	├── StorageSupervisor ("storage-layer")
	│   ├── retention (prunes old reading sessions)
	│   └── compaction (badger value log GC, sqlite VACUUM)
	├── EngineSupervisor ("engine-layer")
	│   └── janitor (evicts idle visitor engines)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and a YAML file
 2. Logging: zerolog with JSON/console output modes
 3. Storage: badger, sqlite or memory behind a circuit breaker
 4. Ranker and engine manager
 5. Content catalog: none, file or http
 6. HTTP Server: chi router with middleware stack
 7. Supervisor Tree: Suture v4 process supervision

# Configuration

Common environment variables:

	HTTP_PORT=8420
	FOLIO_STORAGE_BACKEND=badger        # badger, sqlite, memory
	FOLIO_STORAGE_PATH=/data/folio
	FOLIO_TIMEZONE=Europe/Berlin
	FOLIO_CATALOG_SOURCE=http
	FOLIO_CATALOG_URL=https://blog.example.com/catalog.json
	CORS_ORIGINS=https://blog.example.com
	LOG_LEVEL=info

A config.yaml (or CONFIG_PATH) is watched for changes; edits to the log level
take effect without a restart. Other settings require one.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests, every engine is closed (ending open reading sessions), and the
storage backend is closed last.

# Example Usage

	FOLIO_STORAGE_BACKEND=memory LOG_FORMAT=console ./folio

# Port 8420

The default port has no special meaning beyond being unassigned.
*/
package main
