// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use and shared; it caches
// struct metadata and is safe for concurrent use. Field errors are reported
// under the field's json tag (or query tag), so a failure on
//
//	type TranslateRequest struct {
//	    Message string `json:"message" validate:"required,notblank,max=500"`
//	}
//
// is reported as field "message".
//
// # Custom tags
//
//   - notblank: the string must contain something besides whitespace
//   - media_kind: "movie" or "tv" (and the aliases models.ParseMediaKind accepts)
//
// String min/max bounds count characters, so a 500-character Korean message
// is accepted even though it is longer than 500 bytes.
//
// # Usage
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
