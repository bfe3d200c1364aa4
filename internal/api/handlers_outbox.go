// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/outbox"
)

// maxOutboxBodySize bounds queued request bodies.
const maxOutboxBodySize = 1 << 20 // 1MB

// OutboxEnqueue queues a write for replay once connectivity returns.
func (h *Handler) OutboxEnqueue(w http.ResponseWriter, r *http.Request) {
	var req outbox.Request
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOutboxBodySize))
	if err := decoder.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request body must be valid JSON", nil)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	id, err := h.outbox.Enqueue(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to queue request", err)
		return
	}

	logging.Info().Str("id", id).Str("method", req.Method).Msg("Write queued for replay")

	// Try immediate delivery when connectivity is available.
	if h.monitor.Online() {
		h.replayer.Kick()
	}

	respondSuccess(w, http.StatusAccepted, map[string]string{"id": id}, "")
}

// OutboxPending lists queued writes oldest first.
func (h *Handler) OutboxPending(w http.ResponseWriter, r *http.Request) {
	entries, err := h.outbox.GetPending(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list queued requests", err)
		return
	}

	if entries == nil {
		entries = []*outbox.Entry{}
	}
	respondSuccess(w, http.StatusOK, entries, "")
}

// OutboxDelete removes a queued write before it is delivered.
func (h *Handler) OutboxDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id is required", nil)
		return
	}

	if err := h.outbox.Delete(r.Context(), id); err != nil {
		if errors.Is(err, outbox.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "No queued request with that id", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete queued request", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"id": id, "result": "deleted"}, "")
}
