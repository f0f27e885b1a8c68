// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// File reads the catalog from a JSON file and re-reads it whenever the file's
// modification time or size changes.
type File struct {
	path   string
	logger zerolog.Logger

	mu      sync.Mutex
	items   []models.ContentItem
	modTime time.Time
	size    int64
	loaded  bool
}

// NewFile creates a file-backed catalog. The file is read on first use.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewFile(path string, logger zerolog.Logger) *File {
	return &File{
		path:   path,
		logger: logger.With().Str("component", "catalog").Str("source", "file").Str("path", path).Logger(),
	}
}

// ListAll implements Catalog. When the file disappears or turns invalid after
// a successful read, the previous items keep being served.
func (f *File) ListAll(_ context.Context) ([]models.ContentItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := os.Stat(f.path)
	if err != nil {
		return f.staleLocked(fmt.Errorf("%w: stat %s: %w", ErrUnavailable, f.path, err))
	}
	if f.loaded && info.ModTime().Equal(f.modTime) && info.Size() == f.size {
		return append([]models.ContentItem(nil), f.items...), nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return f.staleLocked(fmt.Errorf("%w: read %s: %w", ErrUnavailable, f.path, err))
	}
	items, dropped, err := Decode(data)
	if err != nil {
		return f.staleLocked(fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	if dropped > 0 {
		f.logger.Warn().Int("dropped", dropped).Msg("Catalog contains invalid items, skipping them")
	}

	f.items = items
	f.modTime = info.ModTime()
	f.size = info.Size()
	f.loaded = true
	metrics.RecordCatalogLoad("file", len(items), nil, false)
	f.logger.Info().Int("items", len(items)).Msg("Catalog loaded")

	return append([]models.ContentItem(nil), items...), nil
}

func (f *File) staleLocked(err error) ([]models.ContentItem, error) {
	if !f.loaded {
		metrics.RecordCatalogLoad("file", 0, err, false)
		return nil, err
	}
	metrics.RecordCatalogLoad("file", len(f.items), err, true)
	f.logger.Warn().Err(err).Msg("Catalog refresh failed, serving previous copy")
	return append([]models.ContentItem(nil), f.items...), nil
}
