// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// =====================================================
// Backend conformance tests, run against every backend
// =====================================================

type backendFactory func(t *testing.T) Backend

func backendFactories() map[string]backendFactory {
	return map[string]backendFactory{
		"memory": func(t *testing.T) Backend {
			t.Helper()
			return NewMemoryBackend()
		},
		"badger": func(t *testing.T) Backend {
			t.Helper()
			b, err := OpenBadger(BadgerOptions{Path: t.TempDir()})
			if err != nil {
				t.Fatalf("OpenBadger() error = %v", err)
			}
			return b
		},
		"badger-inmemory": func(t *testing.T) Backend {
			t.Helper()
			b, err := OpenBadger(BadgerOptions{InMemory: true})
			if err != nil {
				t.Fatalf("OpenBadger(InMemory) error = %v", err)
			}
			return b
		},
		"sqlite": func(t *testing.T) Backend {
			t.Helper()
			b, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "folio.db"))
			if err != nil {
				t.Fatalf("OpenSQLite() error = %v", err)
			}
			return b
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, b Backend)) {
	t.Helper()
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			b := factory(t)
			t.Cleanup(func() { _ = b.Close() })
			fn(t, b)
		})
	}
}

func TestBackend_GetSetDelete(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, b Backend) {
		ctx := context.Background()

		if _, err := b.Get(ctx, "prefs:v1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
		}

		if err := b.Set(ctx, "prefs:v1", []byte(`{"theme":"dark"}`)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := b.Get(ctx, "prefs:v1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(got) != `{"theme":"dark"}` {
			t.Errorf("Get() = %s, want {\"theme\":\"dark\"}", got)
		}

		if err := b.Set(ctx, "prefs:v1", []byte(`{}`)); err != nil {
			t.Fatalf("Set(overwrite) error = %v", err)
		}
		got, _ = b.Get(ctx, "prefs:v1") //nolint:errcheck // checked above
		if string(got) != `{}` {
			t.Errorf("Get() after overwrite = %s, want {}", got)
		}

		if err := b.Delete(ctx, "prefs:v1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := b.Delete(ctx, "prefs:v1"); err != nil {
			t.Fatalf("Delete(missing) error = %v", err)
		}
		if _, err := b.Get(ctx, "prefs:v1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
		}
	})
}

func TestBackend_ListAndDeletePrefix(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, b Backend) {
		ctx := context.Background()

		keys := []string{
			SessionKey("alice", "post-b-2"),
			SessionKey("alice", "post-a-1"),
			SessionKey("alicia", "post-c-3"),
			SessionKey("bob", "post-a-9"),
			PreferencesKey("alice"),
		}
		for _, k := range keys {
			if err := b.Set(ctx, k, []byte(k)); err != nil {
				t.Fatalf("Set(%s) error = %v", k, err)
			}
		}

		entries, err := b.List(ctx, SessionsPrefix("alice"))
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("List() returned %d entries, want 2: %+v", len(entries), entries)
		}
		if entries[0].Key != SessionKey("alice", "post-a-1") {
			t.Errorf("List()[0].Key = %s, want ordered by key", entries[0].Key)
		}
		if string(entries[1].Value) != SessionKey("alice", "post-b-2") {
			t.Errorf("List()[1].Value = %s", entries[1].Value)
		}

		all, err := b.List(ctx, AllSessionsPrefix)
		if err != nil {
			t.Fatalf("List(all) error = %v", err)
		}
		if len(all) != 4 {
			t.Errorf("List(all) returned %d entries, want 4", len(all))
		}

		n, err := b.DeletePrefix(ctx, SessionsPrefix("alice"))
		if err != nil {
			t.Fatalf("DeletePrefix() error = %v", err)
		}
		if n != 2 {
			t.Errorf("DeletePrefix() = %d, want 2", n)
		}
		if _, err := b.Get(ctx, SessionKey("alicia", "post-c-3")); err != nil {
			t.Errorf("DeletePrefix removed a key of another visitor: %v", err)
		}
		if _, err := b.Get(ctx, PreferencesKey("alice")); err != nil {
			t.Errorf("DeletePrefix removed the preferences record: %v", err)
		}

		n, err = b.DeletePrefix(ctx, SessionsPrefix("nobody"))
		if err != nil || n != 0 {
			t.Errorf("DeletePrefix(empty) = %d, %v, want 0, nil", n, err)
		}
	})
}

func TestBackend_ValuesAreCopies(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, b Backend) {
		ctx := context.Background()
		value := []byte("original")
		if err := b.Set(ctx, "k", value); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		value[0] = 'X'

		got, err := b.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(got) != "original" {
			t.Errorf("Get() = %s, want original", got)
		}
	})
}

func TestBackend_Ping(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, b Backend) {
		if err := b.Ping(context.Background()); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}

func TestBackend_CanceledContext(t *testing.T) {
	t.Parallel()
	forEachBackend(t, func(t *testing.T, b Backend) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := b.Set(ctx, "k", []byte("v")); err == nil {
			t.Error("Set(canceled ctx) error = nil, want error")
		}
	})
}

func TestBadgerBackend_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	b, err := OpenBadger(BadgerOptions{Path: dir})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	if err := b.Set(ctx, PreferencesKey("v"), []byte("saved")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := b.Compact(ctx); err != nil {
		t.Fatalf("Compact() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	b, err = OpenBadger(BadgerOptions{Path: dir})
	if err != nil {
		t.Fatalf("OpenBadger(reopen) error = %v", err)
	}
	defer b.Close()

	got, err := b.Get(ctx, PreferencesKey("v"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "saved" {
		t.Errorf("Get() = %s, want saved", got)
	}
}

func TestMemoryBackend_Closed(t *testing.T) {
	t.Parallel()

	m := NewMemoryBackend()
	_ = m.Close()
	if _, err := m.Get(context.Background(), "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() after Close error = %v, want ErrClosed", err)
	}
}

func TestParseSessionKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key         string
		wantVisitor string
		wantSession string
		wantOK      bool
	}{
		{SessionKey("v1", "post-1-1700000000000"), "v1", "post-1-1700000000000", true},
		{SessionKey("v1", "a:b"), "v1", "a:b", true},
		{PreferencesKey("v1"), "", "", false},
		{"session:v1", "", "", false},
		{"session::x", "", "", false},
	}
	for _, tt := range tests {
		v, s, ok := ParseSessionKey(tt.key)
		if v != tt.wantVisitor || s != tt.wantSession || ok != tt.wantOK {
			t.Errorf("ParseSessionKey(%q) = %q, %q, %v, want %q, %q, %v",
				tt.key, v, s, ok, tt.wantVisitor, tt.wantSession, tt.wantOK)
		}
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), OpenConfig{Backend: "etcd"}, zerologNop()); err == nil {
		t.Error("Open(etcd) error = nil, want error")
	}
}

func TestOpen_Memory(t *testing.T) {
	t.Parallel()

	b, err := Open(context.Background(), OpenConfig{Backend: BackendMemory}, zerologNop())
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	defer b.Close()

	if _, ok := b.(*Guarded); !ok {
		t.Errorf("Open() returned %T, want *Guarded", b)
	}
}
