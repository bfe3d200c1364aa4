// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package models

import "time"

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status is "success" or "error". On success Data carries the payload;
// on error the Error field explains what went wrong. Metadata records
// where the payload came from, which matters to offline-aware clients: a
// "stale" source tells the UI to show the data with a refresh hint.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes the provenance of a response.
//
// Source values: "cache" (fresh cached copy), "network" (fetched now),
// "stale" (expired copy served because the upstream was unreachable).
// Empty for endpoints where provenance makes no sense.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
}

// APIError carries a machine-readable code with a human message.
//
// Codes used by the API:
//   - VALIDATION_ERROR: invalid parameters
//   - NOT_FOUND: unknown resource
//   - OFFLINE_NO_CACHE: offline and nothing cached for the request
//   - UPSTREAM_ERROR: the catalog API failed and no stale copy existed
//   - INTERNAL_ERROR: everything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Success builds a success envelope with the given payload and source.
func Success(data interface{}, source string) APIResponse {
	return APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now().UTC(), Source: source},
	}
}

// Error builds an error envelope.
func Error(code, message string) APIResponse {
	return APIResponse{
		Status:   "error",
		Error:    &APIError{Code: code, Message: message},
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	}
}
