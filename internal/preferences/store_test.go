// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package preferences

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/storage"
	"github.com/tomtom215/folio/internal/storage/storagetest"
)

func newTestStore(t *testing.T) (*Store, *storagetest.FlakyBackend) {
	t.Helper()
	backend := storagetest.NewFlakyBackend()
	return NewStore(backend, "visitor-1", zerolog.Nop()), backend
}

func TestStore_LoadDefaults(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	got := store.Load(context.Background())

	if got.Theme != models.DefaultTheme {
		t.Errorf("Theme = %q, want %q", got.Theme, models.DefaultTheme)
	}
	if len(got.ReadingHistory) != 0 || got.ReadingHistory == nil {
		t.Errorf("ReadingHistory = %v, want empty non-nil", got.ReadingHistory)
	}
}

func TestStore_LoadMergesOverDefaults(t *testing.T) {
	t.Parallel()

	store, backend := newTestStore(t)
	ctx := context.Background()

	// Older record without viewPreferences or theme.
	raw := []byte(`{"bookmarks":["a","a","b"],"favoriteTags":["go"]}`)
	if err := backend.Set(ctx, storage.PreferencesKey("visitor-1"), raw); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got := store.Load(ctx)
	if len(got.Bookmarks) != 2 {
		t.Errorf("Bookmarks = %v, want deduplicated [a b]", got.Bookmarks)
	}
	if got.Theme != models.DefaultTheme {
		t.Errorf("Theme = %q, want default", got.Theme)
	}
	if got.ViewPreferences.Layout != models.DefaultLayout {
		t.Errorf("ViewPreferences.Layout = %q, want default", got.ViewPreferences.Layout)
	}
	if got.FavoriteCategories == nil {
		t.Error("FavoriteCategories is nil, want empty")
	}
}

func TestStore_MalformedRecordFallsBack(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	backend := storagetest.NewFlakyBackend()
	store := NewStore(backend, "visitor-1", logging.NewTestLogger(&buf))
	backend.Corrupt(storage.PreferencesKey("visitor-1"), []byte(`{"bookmarks": [`))

	got := store.Load(context.Background())
	if got.Theme != models.DefaultTheme || len(got.Bookmarks) != 0 {
		t.Errorf("Load() = %+v, want defaults", got)
	}
	if !strings.Contains(buf.String(), "Malformed preferences record") {
		t.Errorf("expected malformed warning in log, got: %s", buf.String())
	}
}

func TestStore_UnavailableFallsBack(t *testing.T) {
	t.Parallel()

	store, backend := newTestStore(t)
	backend.SetFailing(true)

	got := store.Load(context.Background())
	if got.Theme != models.DefaultTheme {
		t.Errorf("Theme = %q, want default", got.Theme)
	}
}

func TestStore_LoadIsCached(t *testing.T) {
	t.Parallel()

	store, backend := newTestStore(t)
	ctx := context.Background()

	store.Load(ctx)
	calls := backend.Calls()
	store.Load(ctx)
	store.IsBookmarked(ctx, "x")

	if backend.Calls() != calls {
		t.Errorf("backend calls = %d, want %d (cached)", backend.Calls(), calls)
	}
}

func TestStore_SavePersistsAndMerges(t *testing.T) {
	t.Parallel()

	store, backend := newTestStore(t)
	ctx := context.Background()

	theme := "dark"
	weekly := 5
	got := store.Save(ctx, models.PreferencesPatch{
		Theme:        &theme,
		ReadingGoals: &models.ReadingGoals{WeeklyPosts: &weekly},
	})
	if got.Theme != "dark" {
		t.Errorf("Save() Theme = %q, want dark", got.Theme)
	}

	raw, err := backend.Get(ctx, storage.PreferencesKey("visitor-1"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	var persisted models.Preferences
	if err := json.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if persisted.Theme != "dark" || persisted.ReadingGoals.WeeklyPosts == nil || *persisted.ReadingGoals.WeeklyPosts != 5 {
		t.Errorf("persisted = %+v, want theme dark and weekly goal 5", persisted)
	}

	// A fresh store for the same visitor sees the saved value.
	fresh := NewStore(backend, "visitor-1", zerolog.Nop())
	if fresh.Load(ctx).Theme != "dark" {
		t.Error("fresh store did not read persisted preferences")
	}
}

func TestStore_SaveSwallowsPersistFailure(t *testing.T) {
	t.Parallel()

	store, backend := newTestStore(t)
	ctx := context.Background()
	store.Load(ctx)
	backend.SetFailing(true)

	theme := "light"
	got := store.Save(ctx, models.PreferencesPatch{Theme: &theme})
	if got.Theme != "light" {
		t.Errorf("Save() Theme = %q, want light", got.Theme)
	}
	if store.Load(ctx).Theme != "light" {
		t.Error("in-memory copy not updated after failed persist")
	}

	backend.SetFailing(false)
	if _, err := backend.Get(ctx, storage.PreferencesKey("visitor-1")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("persisted record exists after failed write: %v", err)
	}
}

func TestStore_ToggleBookmark(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	if !store.ToggleBookmark(ctx, "post-1") {
		t.Error("ToggleBookmark() = false, want true")
	}
	if !store.IsBookmarked(ctx, "post-1") {
		t.Error("IsBookmarked() = false after add")
	}
	if store.ToggleBookmark(ctx, "post-1") {
		t.Error("second ToggleBookmark() = true, want false")
	}
	if store.IsBookmarked(ctx, "post-1") {
		t.Error("IsBookmarked() = true after double toggle")
	}
}

func TestStore_AddToHistoryCap(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		store.AddToHistory(ctx, models.ContentID(fmt.Sprintf("post-%d", i)))
	}
	store.AddToHistory(ctx, "post-120")

	history := store.Load(ctx).ReadingHistory
	if len(history) != models.HistoryLimit {
		t.Fatalf("len(history) = %d, want %d", len(history), models.HistoryLimit)
	}
	if history[0] != "post-120" || history[1] != "post-149" {
		t.Errorf("history head = %v, want [post-120 post-149 ...]", history[:2])
	}
}

func TestStore_AddFavoriteCategory(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	if !store.AddFavoriteCategory(ctx, "golang") {
		t.Error("AddFavoriteCategory() = false, want true")
	}
	if store.AddFavoriteCategory(ctx, "golang") {
		t.Error("second AddFavoriteCategory() = true, want false")
	}
	if got := store.Load(ctx).FavoriteCategories; len(got) != 1 {
		t.Errorf("FavoriteCategories = %v, want [golang]", got)
	}
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	store, backend := newTestStore(t)
	ctx := context.Background()

	store.ToggleBookmark(ctx, "post-1")
	store.Clear(ctx)

	if store.IsBookmarked(ctx, "post-1") {
		t.Error("bookmark survived Clear()")
	}
	if _, err := backend.Get(ctx, storage.PreferencesKey("visitor-1")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() after Clear error = %v, want ErrNotFound", err)
	}
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	p := store.Load(ctx)
	p.Bookmarks = append(p.Bookmarks, "leak")

	if store.IsBookmarked(ctx, "leak") {
		t.Error("Load() returned a shared slice")
	}
}
