// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package catalog

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Source kinds accepted by Open.
const (
	SourceNone = "none"
	SourceFile = "file"
	SourceHTTP = "http"
)

// Options selects and configures a catalog source.
type Options struct {
	Source  string
	Path    string
	URL     string
	TTL     time.Duration
	Timeout time.Duration
}

// Open builds the configured catalog. SourceNone yields an empty static
// catalog, which makes GET recommendations return nothing while POST with
// an inline catalog keeps working.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(opts Options, logger zerolog.Logger) (Catalog, error) {
	switch opts.Source {
	case "", SourceNone:
		return NewStatic(nil), nil
	case SourceFile:
		if opts.Path == "" {
			return nil, fmt.Errorf("catalog source %q requires a path", opts.Source)
		}
		return NewFile(opts.Path, logger), nil
	case SourceHTTP:
		if opts.URL == "" {
			return nil, fmt.Errorf("catalog source %q requires a url", opts.Source)
		}
		return NewHTTP(opts.URL, newHTTPClient(opts.Timeout), opts.TTL, logger), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", opts.Source)
	}
}
