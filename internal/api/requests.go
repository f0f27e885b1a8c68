// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Request bodies and query parameters, validated with go-playground/validator
// tags before they reach the engine.
//
// Example usage:
//
//	var req StartReadingRequest
//	if !decodeAndValidate(w, r, &req) {
//	    return
//	}

package api

import "github.com/tomtom215/folio/internal/models"

// StartReadingRequest is the body of POST /reading/start.
type StartReadingRequest struct {
	ContentID models.ContentID `json:"contentId" validate:"required,max=256"`
}

// ProgressRequest is the body of POST /reading/progress. Progress is a pointer
// so that an explicit 0 is distinguishable from a missing field; the engine
// clamps it to [0, 100].
type ProgressRequest struct {
	Progress *float64 `json:"progress" validate:"required"`
}

// VisibilityRequest is the body of POST /reading/visibility.
type VisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

// EngagementRequest is the body of POST /engagement.
type EngagementRequest struct {
	Category models.CategoryID `json:"category" validate:"required,max=256"`
	Signal   string            `json:"signal" validate:"required,oneof=read liked shared bookmarked"`
}

// RecommendationsRequest is the body of POST /recommendations.
type RecommendationsRequest struct {
	Items   []models.ContentItem `json:"items" validate:"max=5000,dive"`
	Limit   int                  `json:"limit,omitempty" validate:"min=0,max=1000"`
	Explain bool                 `json:"explain,omitempty"`
}

// RecommendationsQuery holds the query parameters of GET /recommendations.
type RecommendationsQuery struct {
	Limit   int `validate:"min=0,max=1000"`
	Explain bool
}

// StartReadingResponse is returned by POST /reading/start.
type StartReadingResponse struct {
	SessionID string `json:"sessionId"`
}

// ProgressResponse is returned by POST /reading/progress.
type ProgressResponse struct {
	Recorded bool `json:"recorded"`
}

// EndReadingResponse is returned by POST /reading/end. Session is nil when
// nothing was being read.
type EndReadingResponse struct {
	Ended   bool                   `json:"ended"`
	Session *models.ReadingSession `json:"session,omitempty"`
}

// CurrentSessionResponse is returned by GET /reading/current.
type CurrentSessionResponse struct {
	Active  bool                   `json:"active"`
	Session *models.ReadingSession `json:"session,omitempty"`
}

// EngagementResponse is returned by POST /engagement.
type EngagementResponse struct {
	Promoted bool `json:"promoted"`
}

// BookmarkResponse is returned by the bookmark endpoints.
type BookmarkResponse struct {
	ContentID  models.ContentID `json:"contentId"`
	Bookmarked bool             `json:"bookmarked"`
}
