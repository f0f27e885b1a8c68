// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	_ "time/tzdata" // IANA zones for engine.timezone on minimal images

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/api"
	"github.com/tomtom215/folio/internal/catalog"
	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/engine"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/storage"
	"github.com/tomtom215/folio/internal/supervisor"
	"github.com/tomtom215/folio/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingOptions())

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Folio exited with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // Sequential setup steps
func run(cfg *config.Config) error {
	logger := logging.Logger()

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("storage", cfg.Storage.Backend).
		Str("catalog", cfg.Catalog.Source).
		Msg("Starting Folio with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg.StorageOpenConfig(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing storage backend")
		}
	}()

	ranker := recommend.NewRanker(cfg.RecommendOptions(), recommend.NewHeuristicScorer(), logger)
	manager := engine.NewManager(backend, ranker, cfg.ManagerConfig(), logger)
	// Runs before the backend is closed so open sessions are persisted.
	defer manager.Close()

	cat, err := catalog.Open(cfg.CatalogOptions(), logger)
	if err != nil {
		return err
	}

	if cfg.Security.RateLimitDisabled {
		logger.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" && cfg.IsProduction() {
			logger.Warn().Msg("CORS allows every origin (CORS_ORIGINS=*) in production")
			break
		}
	}

	handler := api.NewHandler(api.HandlerConfig{
		Manager: manager,
		Catalog: cat,
		Backend: backend,
	}, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		Visitor: api.VisitorConfig{
			CookieName:   cfg.Security.VisitorCookie,
			CookieSecure: cfg.Security.CookieSecure,
		},
		Middleware: api.NewChiMiddlewareFromSecurity(
			cfg.Security.CORSOrigins,
			cfg.Security.RateLimitReqs,
			cfg.Security.RateLimitWindow,
			cfg.Security.RateLimitDisabled,
		),
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	addServices(tree, cfg, backend, manager, server, logger)
	watchLogLevel(logging.WithComponent("config"))

	logger.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	stop()

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}

// addServices registers every background service with its layer.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func addServices(tree *supervisor.SupervisorTree, cfg *config.Config, backend storage.Backend, manager *engine.Manager, server *http.Server, logger zerolog.Logger) {
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
	logger.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if cfg.Engine.IdleTTL > 0 {
		tree.AddEngineService(services.NewJanitorService(manager, cfg.Engine.SweepInterval, logger))
	}

	if cfg.Retention.Enabled {
		tree.AddStorageService(services.NewRetentionService(backend, manager, services.RetentionConfig{
			MaxAge:   cfg.Retention.MaxAge,
			Interval: cfg.Retention.Interval,
		}, logger))
		logger.Info().Dur("max_age", cfg.Retention.MaxAge).Msg("Session retention enabled")
	}

	if compactor, ok := backend.(storage.Compactor); ok && cfg.Storage.CompactInterval > 0 {
		tree.AddStorageService(services.NewCompactionService(compactor, cfg.Storage.CompactInterval, logger))
	}
}

// watchLogLevel reloads the config file on change and applies its log level.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func watchLogLevel(logger zerolog.Logger) {
	path := config.FindConfigFile()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		next, err := config.LoadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Ignoring invalid configuration change")
			return
		}
		logging.SetLevelString(next.Logging.Level)
		logger.Info().Str("level", next.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
	}
}
