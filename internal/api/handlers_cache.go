// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package api

import (
	"net/http"

	"github.com/reelrate/edge/internal/gateway"
	"github.com/reelrate/edge/internal/logging"
)

// cacheStatsResponse combines manager counters with response cache sizes.
type cacheStatsResponse struct {
	Hits           int64    `json:"hits"`
	Misses         int64    `json:"misses"`
	Evictions      int64    `json:"evictions"`
	Promotions     int64    `json:"promotions"`
	HitRate        float64  `json:"hit_rate"`
	MemoryEntries  int      `json:"memory_entries"`
	DurableEntries int      `json:"durable_entries"`
	StaticEntries  int      `json:"static_entries"`
	DynamicEntries int      `json:"dynamic_entries"`
	CacheNames     []string `json:"cache_names"`
}

// CacheStats reports cache counters and response cache sizes.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := h.cache.Stats(ctx)

	staticLen, err := h.gateway.StaticCache().Len(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read response cache", err)
		return
	}
	dynamicLen, err := h.gateway.DynamicCache().Len(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read response cache", err)
		return
	}
	names, err := gateway.ListCacheNames(ctx, h.gateway.DB())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list caches", err)
		return
	}

	respondSuccess(w, http.StatusOK, cacheStatsResponse{
		Hits:           stats.Hits,
		Misses:         stats.Misses,
		Evictions:      stats.Evictions,
		Promotions:     stats.Promotions,
		HitRate:        h.cache.HitRate(),
		MemoryEntries:  stats.MemoryEntries,
		DurableEntries: stats.DurableEntries,
		StaticEntries:  staticLen,
		DynamicEntries: dynamicLen,
		CacheNames:     names,
	}, "")
}

// CacheClear empties both tiers of the data cache.
func (h *Handler) CacheClear(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear(r.Context())
	logging.Info().Msg("Cache cleared via API")
	respondSuccess(w, http.StatusOK, map[string]string{"result": "cleared"}, "")
}

// GatewayActivate promotes a waiting gateway to active, the server-side
// counterpart of a client skip-waiting request.
func (h *Handler) GatewayActivate(w http.ResponseWriter, r *http.Request) {
	lc := h.gateway.Lifecycle()
	if err := lc.Activate(r.Context()); err != nil {
		respondError(w, http.StatusConflict, "INVALID_STATE", err.Error(), nil)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"state": string(lc.State())}, "")
}
