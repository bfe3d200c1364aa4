// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package fetch

import "errors"

var (
	// ErrOfflineNoCache is returned when the process is offline and no
	// cached entry, fresh or stale, exists for the requested key.
	ErrOfflineNoCache = errors.New("offline and no cached data available")

	// ErrUpstreamUnavailable is returned when an upstream call failed and
	// no stale cached entry could cover for it. The underlying cause is
	// wrapped.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
