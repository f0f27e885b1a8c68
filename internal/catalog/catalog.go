// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package catalog provides read-only access to the content catalog that the
// ranker scores. The catalog is owned by the blog backend; Folio only lists it.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/validation"
)

// ErrUnavailable is returned when the catalog source cannot be read.
var ErrUnavailable = errors.New("catalog unavailable")

// Catalog lists every content item eligible for recommendation.
type Catalog interface {
	ListAll(ctx context.Context) ([]models.ContentItem, error)
}

// Static is an in-memory catalog.
type Static struct {
	items []models.ContentItem
}

// NewStatic wraps items. The slice is copied.
func NewStatic(items []models.ContentItem) *Static {
	return &Static{items: append([]models.ContentItem(nil), items...)}
}

// ListAll implements Catalog.
func (s *Static) ListAll(_ context.Context) ([]models.ContentItem, error) {
	return append([]models.ContentItem(nil), s.items...), nil
}

// document is the on-disk and over-the-wire catalog format. A bare JSON
// array of items is accepted as well.
type document struct {
	Items []models.ContentItem `json:"items"`
}

// Decode parses a catalog document and drops items that fail validation.
// It returns the kept items and the number dropped.
func Decode(data []byte) ([]models.ContentItem, int, error) {
	var items []models.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		var doc document
		if docErr := json.Unmarshal(data, &doc); docErr != nil {
			return nil, 0, fmt.Errorf("decode catalog: %w", err)
		}
		items = doc.Items
	}

	kept := items[:0]
	dropped := 0
	for i := range items {
		if verr := validation.ValidateStruct(&items[i]); verr != nil {
			dropped++
			continue
		}
		kept = append(kept, items[i])
	}
	return kept, dropped, nil
}
