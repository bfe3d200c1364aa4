// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package metrics provides Prometheus instrumentation for ReelRate Edge.
//
// All metrics are registered with the default registry via promauto and
// exposed on /metrics by the HTTP server. Counters and gauges are package
// level so that any component can record without plumbing a registry handle.
package metrics
