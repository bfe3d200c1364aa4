// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package config loads layered application configuration with koanf.
//
// Configuration is resolved in three layers, later layers overriding
// earlier ones:
//
//  1. Struct defaults (defaultConfig)
//  2. YAML config file (CONFIG_PATH or the first of DefaultConfigPaths)
//  3. REELRATE_* environment variables
//
// Environment variables map to config paths by section prefix:
//
//	REELRATE_SERVER_PORT           -> server.port
//	REELRATE_TMDB_API_KEY          -> tmdb.api_key
//	REELRATE_CACHE_STALE_RETENTION -> cache.stale_retention
//
// The loaded Config is validated before being returned and is immutable
// afterwards.
package config
