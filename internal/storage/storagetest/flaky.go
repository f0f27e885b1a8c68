// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package storagetest provides storage backends for exercising failure paths
// in tests.
package storagetest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/folio/internal/storage"
)

// FlakyBackend wraps a MemoryBackend and fails every operation while Failing
// is set. Calls counts every attempted operation.
type FlakyBackend struct {
	*storage.MemoryBackend

	failing atomic.Bool
	calls   atomic.Int64

	mu      sync.Mutex
	corrupt map[string][]byte
}

// NewFlakyBackend returns a healthy backend.
func NewFlakyBackend() *FlakyBackend {
	return &FlakyBackend{MemoryBackend: storage.NewMemoryBackend()}
}

// SetFailing toggles the simulated outage.
func (f *FlakyBackend) SetFailing(v bool) {
	f.failing.Store(v)
}

// Calls returns the number of operations attempted so far.
func (f *FlakyBackend) Calls() int64 {
	return f.calls.Load()
}

// Corrupt makes Get return raw for key regardless of what is stored.
func (f *FlakyBackend) Corrupt(key string, raw []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.corrupt == nil {
		f.corrupt = make(map[string][]byte)
	}
	f.corrupt[key] = raw
}

func (f *FlakyBackend) check() error {
	f.calls.Add(1)
	if f.failing.Load() {
		return storage.ErrUnavailable
	}
	return nil
}

// Get implements storage.Backend.
func (f *FlakyBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	raw, ok := f.corrupt[key]
	f.mu.Unlock()
	if ok {
		return append([]byte(nil), raw...), nil
	}
	return f.MemoryBackend.Get(ctx, key)
}

// Set implements storage.Backend.
func (f *FlakyBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.MemoryBackend.Set(ctx, key, value)
}

// Delete implements storage.Backend.
func (f *FlakyBackend) Delete(ctx context.Context, key string) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.MemoryBackend.Delete(ctx, key)
}

// List implements storage.Backend.
func (f *FlakyBackend) List(ctx context.Context, prefix string) ([]storage.Entry, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return f.MemoryBackend.List(ctx, prefix)
}

// DeletePrefix implements storage.Backend.
func (f *FlakyBackend) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	return f.MemoryBackend.DeletePrefix(ctx, prefix)
}

// Ping implements storage.Backend.
func (f *FlakyBackend) Ping(ctx context.Context) error {
	if f.failing.Load() {
		return storage.ErrUnavailable
	}
	return f.MemoryBackend.Ping(ctx)
}
