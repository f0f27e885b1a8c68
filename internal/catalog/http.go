// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// maxCatalogBytes bounds a fetched catalog document.
const maxCatalogBytes = 32 << 20

// HTTP fetches the catalog from the blog backend and caches it for a TTL.
type HTTP struct {
	url        string
	httpClient *http.Client
	ttl        time.Duration
	logger     zerolog.Logger

	mu      sync.Mutex
	items   []models.ContentItem
	fetched time.Time
}

// NewHTTP creates a URL-backed catalog. A nil client gets a 10 second
// timeout; a zero ttl means five minutes.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHTTP(url string, client *http.Client, ttl time.Duration, logger zerolog.Logger) *HTTP {
	if client == nil {
		client = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &HTTP{
		url:        url,
		httpClient: client,
		ttl:        ttl,
		logger:     logger.With().Str("component", "catalog").Str("source", "http").Str("url", url).Logger(),
	}
}

// ListAll implements Catalog. A failed refresh falls back to the last
// successful fetch when there is one.
func (h *HTTP) ListAll(ctx context.Context) ([]models.ContentItem, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.fetched.IsZero() && time.Since(h.fetched) < h.ttl {
		return append([]models.ContentItem(nil), h.items...), nil
	}

	items, err := h.fetch(ctx)
	if err != nil {
		if h.fetched.IsZero() {
			metrics.RecordCatalogLoad("http", 0, err, false)
			return nil, err
		}
		metrics.RecordCatalogLoad("http", len(h.items), err, true)
		h.logger.Warn().Err(err).Msg("Catalog refresh failed, serving previous copy")
		return append([]models.ContentItem(nil), h.items...), nil
	}

	h.items = items
	h.fetched = time.Now()
	metrics.RecordCatalogLoad("http", len(items), nil, false)
	h.logger.Debug().Int("items", len(items)).Msg("Catalog refreshed")
	return append([]models.ContentItem(nil), items...), nil
}

func (h *HTTP) fetch(ctx context.Context) ([]models.ContentItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch failed with status %d", ErrUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}
	items, dropped, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if dropped > 0 {
		h.logger.Warn().Int("dropped", dropped).Msg("Catalog contains invalid items, skipping them")
	}
	return items, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return nil
	}
	return &http.Client{Timeout: timeout}
}
