// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package api exposes the HTTP surface: catalog endpoints backed by the
// two-tier cache, cache and outbox management, push broadcast, the
// WebSocket upgrade, and the gateway fallback for app traffic.
//
// All endpoints return the models.APIResponse envelope. Catalog
// responses carry a provenance source (cache, network, stale) so
// offline-aware clients can tell fresh data from fallbacks.
package api
