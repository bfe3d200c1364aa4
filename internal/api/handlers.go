// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package api

import (
	"net/http"
	"time"

	"github.com/reelrate/edge/internal/cache"
	"github.com/reelrate/edge/internal/catalog"
	"github.com/reelrate/edge/internal/fetch"
	"github.com/reelrate/edge/internal/gateway"
	"github.com/reelrate/edge/internal/outbox"
	"github.com/reelrate/edge/internal/push"
)

// Handler bundles the dependencies behind the HTTP endpoints.
//
// Handler methods are split across files:
//   - handlers.go: struct, constructor, health
//   - handlers_catalog.go: movie and anime endpoints
//   - handlers_cache.go: cache stats, clear, gateway activation
//   - handlers_outbox.go: queued write management
//   - handlers_push.go: notification broadcast and WebSocket upgrade
type Handler struct {
	catalog  *catalog.Service
	cache    *cache.Manager
	outbox   *outbox.Store
	replayer *outbox.Replayer
	hub      *push.Hub
	gateway  *gateway.Gateway
	monitor  *fetch.Monitor
	started  time.Time
}

// HandlerConfig carries the dependencies for NewHandler.
type HandlerConfig struct {
	Catalog  *catalog.Service
	Cache    *cache.Manager
	Outbox   *outbox.Store
	Replayer *outbox.Replayer
	Hub      *push.Hub
	Gateway  *gateway.Gateway
	Monitor  *fetch.Monitor
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		catalog:  cfg.Catalog,
		cache:    cfg.Cache,
		outbox:   cfg.Outbox,
		replayer: cfg.Replayer,
		hub:      cfg.Hub,
		gateway:  cfg.Gateway,
		monitor:  cfg.Monitor,
		started:  time.Now(),
	}
}

// healthStatus is the payload returned by the health endpoint.
type healthStatus struct {
	Status        string  `json:"status"`
	Online        bool    `json:"online"`
	GatewayState  string  `json:"gateway_state"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CacheHitRate  float64 `json:"cache_hit_rate"`
	PushClients   int     `json:"push_clients"`
}

// Health reports liveness plus a connectivity and cache summary.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status:        "ok",
		Online:        h.monitor.Online(),
		GatewayState:  string(h.gateway.Lifecycle().State()),
		UptimeSeconds: time.Since(h.started).Seconds(),
		CacheHitRate:  h.cache.HitRate(),
		PushClients:   h.hub.ClientCount(),
	}

	respondSuccess(w, http.StatusOK, status, "")
}

// HealthLive always reports alive once the process serves traffic.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"}, "")
}

// HealthReady reports ready once the gateway lifecycle has activated.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	state := h.gateway.Lifecycle().State()
	if state != gateway.StateActive {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "gateway state is "+string(state), nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"}, "")
}
