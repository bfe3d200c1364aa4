// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package middleware provides the HTTP middleware chain: request ids
// with logging integration, Prometheus instrumentation and gzip
// compression. Rate limiting and CORS come from go-chi/httprate and
// go-chi/cors and are wired directly in the API router.
package middleware
