// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package catalog provides the movie and anime catalog backed by the TMDB
// and Jikan upstream APIs.
//
// TMDBClient and JikanClient are thin typed HTTP clients. TMDBClient
// retries HTTP 429 responses with exponential backoff; JikanClient
// throttles itself with a token bucket to stay inside Jikan's public rate
// limit. Neither client caches.
//
// Service composes the clients with a fetch.Fetcher so every catalog read
// follows the cache-then-network strategy, including offline stale
// fallbacks. Handlers talk to Service, never to the clients directly.
package catalog
