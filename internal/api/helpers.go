// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reelrate/edge/internal/fetch"
	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/models"
	"github.com/reelrate/edge/internal/validation"
)

// sanitizeLogValue replaces control characters so attacker-supplied
// strings cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON envelope with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a weak validator from the response body using an
// FNV-1a hash.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondSuccess sends a success envelope. source may be empty when
// provenance is irrelevant for the endpoint.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, source string) {
	resp := models.Success(data, source)
	respondJSON(w, status, &resp)
}

// respondError sends an error envelope and logs the underlying error.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	resp := models.Error(code, message)
	respondJSON(w, status, &resp)
}

// respondResult sends a catalog fetch result, marking stale payloads with
// a header so clients can surface a refresh hint.
func respondResult(w http.ResponseWriter, result fetch.Result) {
	if result.Source == fetch.SourceStale {
		w.Header().Set("X-Served-From", "stale-cache")
	}
	respondSuccess(w, http.StatusOK, result.Data, result.Source)
}

// respondFetchError maps fetch errors to API error codes.
func respondFetchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fetch.ErrOfflineNoCache):
		respondError(w, http.StatusServiceUnavailable, "OFFLINE_NO_CACHE",
			"Offline and no cached copy is available", err)
	case errors.Is(err, fetch.ErrUpstreamUnavailable):
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR",
			"Catalog service is unavailable", err)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", err)
	}
}

// validateRequest validates a struct and converts failures into the
// VALIDATION_ERROR shape.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam extracts an integer query parameter with a default.
func getIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// pathID parses a positive integer path parameter.
func pathID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
