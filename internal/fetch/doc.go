// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package fetch orchestrates upstream calls through the cache.
//
// The central entry point is Fetcher.Do, which implements the
// cache-then-network contract used by every catalog operation:
//
//  1. A valid cached entry is returned without touching the network.
//  2. When the process is offline, a stale cached entry is served rather
//     than attempting a doomed request. With no cached entry at all the
//     call fails fast with ErrOfflineNoCache.
//  3. When online, the upstream is called (deduplicated via singleflight
//     and guarded by a per-upstream circuit breaker), the response is
//     cached, and returned.
//  4. An upstream failure falls back to a stale cached entry when one
//     exists, otherwise the error is propagated.
//
// Connectivity is tracked by Monitor, which flips to offline after a run
// of consecutive upstream failures and back to online on the first
// success or a successful background probe. Components such as the outbox
// subscribe to these transitions.
package fetch
