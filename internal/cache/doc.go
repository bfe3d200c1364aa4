// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package cache implements the two-tier TTL cache that memoizes metadata
// API responses for the ReelRate client.
//
// # Architecture
//
// The cache is split into two explicit tiers behind a common Tier interface:
//
//   - Tier 1 (MemoryTier): fast, volatile, process lifetime. Expired entries
//     are lazily evicted on read.
//   - Tier 2 (BadgerTier): slower, durable, survives restarts. Expired
//     entries are retained until the periodic sweep drops entries older than
//     the stale-retention window, so they remain available as fallbacks when
//     an upstream fetch fails.
//
// The Manager coordinates the tiers: writes go to both (durable failures are
// non-fatal), reads check memory first and promote durable hits back into
// memory. GetStale bypasses expiry checks entirely and is the read path used
// by stale-while-fallback.
//
// # Keys
//
// Cache keys are built by the deterministic functions in keys.go; every
// resource type gets a distinct prefix so keys can never collide across
// types. The durable tier namespaces all keys under "reelrate_cache:" to
// keep them apart from other data sharing the same BadgerDB.
package cache
