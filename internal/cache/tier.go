// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package cache

import "context"

// Tier is a single storage layer of the two-tier cache.
//
// Tiers are dumb: they store and return entries without applying expiry
// policy. Deciding whether an expired entry is evicted, retained for stale
// fallback, or promoted lives in the Manager, which keeps every policy
// decision in one place and makes tiers trivially testable with fakes.
type Tier interface {
	// Get returns the entry for key, expired or not.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Set stores the entry under key, overwriting any previous value.
	Set(ctx context.Context, key string, entry Entry) error

	// Delete removes the entry for key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry in this tier's namespace.
	Clear(ctx context.Context) error

	// Sweep removes all entries for which drop returns true and reports
	// how many were removed.
	Sweep(ctx context.Context, drop func(Entry) bool) (int, error)

	// Len reports the current number of entries.
	Len(ctx context.Context) (int, error)
}
