// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator is shared by every request handler.
// Errors report fields by their json names and convert into the
// VALIDATION_ERROR API error shape:
//
//	type progressRequest struct {
//	    Percentage *float64 `json:"percentage" validate:"required,gte=0,lte=100"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Custom Tags
//
//   - visitorid: 1-128 characters from [A-Za-z0-9._:-]
//
// # Error Message Translation
//
//	required   -> "contentId is required"
//	max=256    -> "contentId must be at most 256 characters"
//	max=100    -> "tags must contain at most 100 items"
//	gte=0      -> "percentage must be greater than or equal to 0"
//	oneof=a b  -> "signal must be one of: a b"
package validation
