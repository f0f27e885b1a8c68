// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Command folioctl performs offline maintenance on a Folio data store:
// exporting or erasing one visitor's data, printing their statistics and
// pruning old reading sessions. Stop the server first when using the badger
// backend, which allows a single process only.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/engine"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/storage"
	"github.com/tomtom215/folio/internal/tracker"
	"github.com/tomtom215/folio/internal/validation"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags override the loaded configuration.
type globalFlags struct {
	configPath string
	backend    string
	path       string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "folioctl",
		Short:         "Folio data store maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default: CONFIG_PATH or config.yaml)")
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "storage backend: badger|sqlite (overrides config)")
	root.PersistentFlags().StringVar(&flags.path, "path", "", "storage path (overrides config)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(newExportCmd(&flags))
	root.AddCommand(newClearCmd(&flags))
	root.AddCommand(newStatsCmd(&flags))
	root.AddCommand(newPruneCmd(&flags))
	return root
}

// app is the opened store plus the settings engines need.
type app struct {
	cfg     *config.Config
	backend storage.Backend
}

func openApp(ctx context.Context, flags *globalFlags, stderr io.Writer) (*app, error) {
	path := flags.configPath
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if flags.backend != "" {
		cfg.Storage.Backend = flags.backend
	}
	if flags.path != "" {
		cfg.Storage.Path = flags.path
	}
	if cfg.Storage.Backend == storage.BackendMemory {
		return nil, errors.New("the memory backend holds no data outside the server process")
	}

	logger := logging.Nop()
	if flags.verbose {
		logger = logging.NewTestLogger(stderr)
	}
	logging.SetLogger(logger)

	openCfg := cfg.StorageOpenConfig()
	// One-shot commands should fail fast instead of degrading.
	openCfg.Disabled = true
	backend, err := storage.Open(ctx, openCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return &app{cfg: cfg, backend: backend}, nil
}

func (a *app) close() {
	_ = a.backend.Close()
}

// engine builds a standalone engine for one visitor.
func (a *app) engine(visitorID string) (*engine.Engine, error) {
	if !validation.IsVisitorID(visitorID) {
		return nil, fmt.Errorf("invalid visitor id %q", visitorID)
	}
	logger := logging.Logger()
	ranker := recommend.NewRanker(a.cfg.RecommendOptions(), recommend.NewHeuristicScorer(), logger)
	return engine.New(a.backend, visitorID, ranker, a.cfg.EngineOptions(), logger), nil
}

// withEngine opens the store, runs fn against the visitor's engine and closes
// everything again.
func withEngine(cmd *cobra.Command, flags *globalFlags, visitorID string, fn func(ctx context.Context, e *engine.Engine) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	e, err := a.engine(visitorID)
	if err != nil {
		return err
	}
	defer e.Close(ctx)
	return fn(ctx, e)
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var visitorID, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a visitor's export document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, flags, visitorID, func(ctx context.Context, e *engine.Engine) error {
				doc := e.ExportData(ctx)
				if outPath == "" || outPath == "-" {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), doc)
					return err
				}
				if err := os.WriteFile(outPath, []byte(doc), 0o600); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", visitorID, outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&visitorID, "visitor", "", "visitor id")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("visitor")
	return cmd
}

func newClearCmd(flags *globalFlags) *cobra.Command {
	var visitorID string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase a visitor's preferences and sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, flags, visitorID, func(ctx context.Context, e *engine.Engine) error {
				e.ClearData(ctx)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", visitorID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&visitorID, "visitor", "", "visitor id")
	_ = cmd.MarkFlagRequired("visitor")
	return cmd
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	var visitorID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print a visitor's reading statistics as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, flags, visitorID, func(ctx context.Context, e *engine.Engine) error {
				data, err := json.MarshalIndent(e.GetReadingStats(ctx), "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			})
		},
	}
	cmd.Flags().StringVar(&visitorID, "visitor", "", "visitor id")
	_ = cmd.MarkFlagRequired("visitor")
	return cmd
}

func newPruneCmd(flags *globalFlags) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete ended reading sessions older than a cutoff",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := openApp(ctx, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			maxAge := olderThan
			if maxAge <= 0 {
				maxAge = a.cfg.Retention.MaxAge
			}
			if maxAge <= 0 {
				return errors.New("--older-than must be positive")
			}

			result, err := tracker.PruneBackend(ctx, a.backend, time.Now().Add(-maxAge), logging.Logger())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d pruned=%d malformed=%d visitors=%d\n",
				result.Scanned, result.Pruned, result.Malformed, result.Visitors)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "session age cutoff (default: retention.max_age)")
	return cmd
}
