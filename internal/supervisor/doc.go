// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package supervisor runs Folio's long-lived services under a suture v4 tree.

	folio (root)
	├── storage-layer   retention, compaction
	├── engine-layer    idle visitor janitor
	└── api-layer       HTTP server

Supervisor events (restarts, backoff, panics) are logged through sutureslog
into the same zerolog output as the rest of the process, via
logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	tree.AddEngineService(services.NewJanitorService(manager, time.Minute, logger))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
