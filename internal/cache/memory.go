// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package cache

import (
	"context"
	"sync"
)

// MemoryTier is the fast, volatile tier backed by a plain map.
//
// Thread Safety:
//   - Safe for concurrent access from multiple goroutines
//   - Uses sync.RWMutex for read/write locking
//
// Performance:
//   - O(1) lookups with Go map
//   - Clear swaps the map wholesale rather than deleting per entry
type MemoryTier struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryTier creates an empty in-memory tier.
func NewMemoryTier() *MemoryTier {
	return &MemoryTier{entries: make(map[string]Entry)}
}

// Get returns the entry for key, expired or not.
func (t *MemoryTier) Get(_ context.Context, key string) (Entry, bool, error) {
	t.mu.RLock()
	entry, exists := t.entries[key]
	t.mu.RUnlock()
	return entry, exists, nil
}

// Set stores the entry under key.
func (t *MemoryTier) Set(_ context.Context, key string, entry Entry) error {
	t.mu.Lock()
	t.entries[key] = entry
	t.mu.Unlock()
	return nil
}

// Delete removes the entry for key.
func (t *MemoryTier) Delete(_ context.Context, key string) error {
	t.mu.Lock()
	delete(t.entries, key)
	t.mu.Unlock()
	return nil
}

// Clear removes all entries in a single atomic operation.
func (t *MemoryTier) Clear(_ context.Context) error {
	t.mu.Lock()
	t.entries = make(map[string]Entry)
	t.mu.Unlock()
	return nil
}

// Sweep removes all entries for which drop returns true.
func (t *MemoryTier) Sweep(_ context.Context, drop func(Entry) bool) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, entry := range t.entries {
		if drop(entry) {
			delete(t.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len reports the current number of entries.
func (t *MemoryTier) Len(_ context.Context) (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries), nil
}
