// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package api

import (
	"io"
	"net/http"

	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/push"
)

// maxPushPayloadSize bounds incoming notification payloads.
const maxPushPayloadSize = 64 << 10 // 64KB

// PushSend parses a notification payload and broadcasts it to connected
// clients. Missing fields fall back to the standard defaults.
func (h *Handler) PushSend(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPushPayloadSize))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR", "Payload too large", nil)
		return
	}

	n := push.ParsePayload(raw)
	h.hub.Notify(n)

	logging.Info().Str("title", sanitizeLogValue(n.Title)).Int("clients", h.hub.ClientCount()).Msg("Notification broadcast")

	respondSuccess(w, http.StatusAccepted, map[string]interface{}{
		"delivered_to": h.hub.ClientCount(),
		"title":        n.Title,
	}, "")
}

// WebSocket upgrades the connection and registers the client with the hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	push.ServeWS(h.hub, w, r)
}
