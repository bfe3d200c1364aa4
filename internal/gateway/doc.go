// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package gateway implements the offline-first HTTP edge in front of the
// ReelRate web app.
//
// Every request is classified into one of four policies:
//
//   - api_cache_aside: GET requests for API data (the /api/ prefix, or
//     proxied absolute URLs on the approved API origins). The origin is
//     tried first and 200 responses cached; failures fall back to the
//     cached copy.
//   - navigation: GET requests that accept text/html. Served from the
//     network and never cached; when the origin is unreachable the
//     precached offline page is served instead.
//   - asset: every other GET. Served from the network with successful
//     non-HTML responses cached in the background; failures fall back
//     to any cached match.
//   - passthrough: origin-relative non-GET requests and writes to the
//     approved API origins. Proxied verbatim, never cached.
//
// Absolute-form requests for any other origin are rejected with 403
// before touching the network, so the gateway cannot be driven as an
// open proxy.
//
// Responses are stored in named, versioned caches (static and dynamic)
// persisted in BadgerDB. The Lifecycle state machine controls when the
// gateway starts intercepting: a new version installs by precaching the
// app shell, waits until activated, then purges caches left over from
// older versions. Until the lifecycle is active all traffic passes
// through uncached.
package gateway
