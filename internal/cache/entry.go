// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package cache

import (
	"time"

	"github.com/goccy/go-json"
)

// Entry represents a cached item with expiration.
//
// Invariant: ExpiresAt is strictly after Timestamp. An entry is valid at
// time t iff t does not exceed ExpiresAt.
type Entry struct {
	// Data is the cached payload, stored as raw JSON so the cache stays
	// agnostic to the caller's types.
	Data json.RawMessage `json:"data"`

	// Timestamp is when the entry was written.
	Timestamp time.Time `json:"timestamp"`

	// ExpiresAt is when the entry stops being served by Get.
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the entry is still fresh at the given time.
func (e Entry) Valid(now time.Time) bool {
	return !now.After(e.ExpiresAt)
}

// Age returns how long ago the entry was written.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// newEntry builds an Entry for the given payload and TTL.
func newEntry(data json.RawMessage, ttl time.Duration, now time.Time) Entry {
	return Entry{
		Data:      data,
		Timestamp: now,
		ExpiresAt: now.Add(ttl),
	}
}
