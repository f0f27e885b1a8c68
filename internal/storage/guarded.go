// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/folio/internal/metrics"
)

// GuardConfig configures the circuit breaker in front of a backend.
type GuardConfig struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32

	// WarnInterval limits how often degraded-storage warnings are logged.
	WarnInterval time.Duration
}

// DefaultGuardConfig returns breaker settings suited to a local disk.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Name:             "storage",
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
		WarnInterval:     time.Minute,
	}
}

// Guarded wraps a Backend with a circuit breaker, per-operation metrics and
// throttled failure logging. Not-found results and caller cancellations do
// not count as failures.
type Guarded struct {
	inner  Backend
	cb     *gobreaker.CircuitBreaker[interface{}]
	warn   *rate.Limiter
	logger zerolog.Logger
}

// NewGuarded wraps inner.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewGuarded(inner Backend, cfg GuardConfig, logger zerolog.Logger) *Guarded {
	def := DefaultGuardConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.WarnInterval <= 0 {
		cfg.WarnInterval = def.WarnInterval
	}

	g := &Guarded{
		inner:  inner,
		warn:   rate.NewLimiter(rate.Every(cfg.WarnInterval), 1),
		logger: logger.With().Str("component", "storage").Str("breaker", cfg.Name).Logger(),
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String(), int(to))
			event := g.logger.Info()
			if to == gobreaker.StateOpen {
				event = g.logger.Warn()
			}
			event.Str("from", from.String()).Str("to", to.String()).
				Msg("Storage circuit breaker state changed")
		},
	}
	g.cb = gobreaker.NewCircuitBreaker[interface{}](settings)
	metrics.RecordBreakerTransition(cfg.Name, "", gobreaker.StateClosed.String(), int(gobreaker.StateClosed))
	return g
}

// State returns the breaker state: closed, half-open or open.
func (g *Guarded) State() string {
	return g.cb.State().String()
}

// Unwrap returns the wrapped backend.
func (g *Guarded) Unwrap() Backend {
	return g.inner
}

func (g *Guarded) execute(op string, fn func() (interface{}, error)) (interface{}, error) {
	start := time.Now()
	result, err := g.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	metrics.RecordStorageOp(op, time.Since(start), err, errors.Is(err, ErrNotFound))

	if err != nil && !errors.Is(err, ErrNotFound) && g.warn.Allow() {
		g.logger.Warn().Err(err).Str("operation", op).Msg("Storage operation failed, continuing in memory")
	}
	return result, err
}

// Get implements Backend.
func (g *Guarded) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := g.execute("get", func() (interface{}, error) {
		return g.inner.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	b, _ := v.([]byte) //nolint:errcheck // type is fixed by the closure
	return b, nil
}

// Set implements Backend.
func (g *Guarded) Set(ctx context.Context, key string, value []byte) error {
	_, err := g.execute("set", func() (interface{}, error) {
		return nil, g.inner.Set(ctx, key, value)
	})
	return err
}

// Delete implements Backend.
func (g *Guarded) Delete(ctx context.Context, key string) error {
	_, err := g.execute("delete", func() (interface{}, error) {
		return nil, g.inner.Delete(ctx, key)
	})
	return err
}

// List implements Backend.
func (g *Guarded) List(ctx context.Context, prefix string) ([]Entry, error) {
	v, err := g.execute("list", func() (interface{}, error) {
		return g.inner.List(ctx, prefix)
	})
	if err != nil {
		return nil, err
	}
	entries, _ := v.([]Entry) //nolint:errcheck // type is fixed by the closure
	return entries, nil
}

// DeletePrefix implements Backend.
func (g *Guarded) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	v, err := g.execute("delete_prefix", func() (interface{}, error) {
		return g.inner.DeletePrefix(ctx, prefix)
	})
	if err != nil {
		return 0, err
	}
	n, _ := v.(int) //nolint:errcheck // type is fixed by the closure
	return n, nil
}

// Ping bypasses the breaker so readiness reflects the real backend.
func (g *Guarded) Ping(ctx context.Context) error {
	return g.inner.Ping(ctx)
}

// Compact forwards to the wrapped backend when it supports compaction.
func (g *Guarded) Compact(ctx context.Context) error {
	c, ok := g.inner.(Compactor)
	if !ok {
		return nil
	}
	_, err := g.execute("compact", func() (interface{}, error) {
		return nil, c.Compact(ctx)
	})
	return err
}

// Close closes the wrapped backend.
func (g *Guarded) Close() error {
	return g.inner.Close()
}
