// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// failingTier always errors, simulating a broken durable store (quota
// exceeded, corrupt database). The manager must degrade to memory-only.
type failingTier struct{}

var errBroken = errors.New("storage broken")

func (failingTier) Get(context.Context, string) (Entry, bool, error) { return Entry{}, false, errBroken }
func (failingTier) Set(context.Context, string, Entry) error         { return errBroken }
func (failingTier) Delete(context.Context, string) error             { return errBroken }
func (failingTier) Clear(context.Context) error                      { return errBroken }
func (failingTier) Sweep(context.Context, func(Entry) bool) (int, error) {
	return 0, errBroken
}
func (failingTier) Len(context.Context) (int, error) { return 0, errBroken }

func getString(t *testing.T, m *Manager, key string) (string, bool) {
	t.Helper()
	raw, ok := m.Get(context.Background(), key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("cached payload is not a string: %v", err)
	}
	return s, true
}

func TestManagerSetThenGet(t *testing.T) {
	m := NewManager(Options{})
	ctx := context.Background()

	if err := m.Set(ctx, "key1", "value1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok := getString(t, m, "key1")
	if !ok {
		t.Fatal("expected key1 to exist immediately after set")
	}
	if value != "value1" {
		t.Errorf("expected value1, got %q", value)
	}

	if _, ok := m.Get(ctx, "missing"); ok {
		t.Error("expected missing key to be absent")
	}
}

func TestManagerExpirationEvictsFromMemory(t *testing.T) {
	m := NewManager(Options{})
	ctx := context.Background()

	if err := m.SetWithTTL(ctx, "key1", "value1", 50*time.Millisecond); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}

	if _, ok := m.Get(ctx, "key1"); !ok {
		t.Fatal("expected key1 to exist before expiry")
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok := m.Get(ctx, "key1"); ok {
		t.Fatal("expected key1 to be expired")
	}

	// Lazy eviction: the expired entry must be gone from the memory tier.
	if _, exists, _ := m.memory.Get(ctx, "key1"); exists {
		t.Error("expected expired entry to be removed from memory on lookup")
	}
}

func TestManagerDelete(t *testing.T) {
	m := NewManager(Options{})
	ctx := context.Background()

	_ = m.Set(ctx, "key1", "value1")
	m.Delete(ctx, "key1")

	if _, ok := m.Get(ctx, "key1"); ok {
		t.Error("expected key1 to be deleted")
	}
}

func TestManagerClear(t *testing.T) {
	m := NewManager(Options{})
	ctx := context.Background()

	for _, key := range []string{"key1", "key2", "key3"} {
		_ = m.Set(ctx, key, "v")
	}

	m.Clear(ctx)

	for _, key := range []string{"key1", "key2", "key3"} {
		if _, ok := m.Get(ctx, key); ok {
			t.Errorf("expected %s to be cleared", key)
		}
	}
}

func TestManagerHasDoesNotRefresh(t *testing.T) {
	m := NewManager(Options{})
	ctx := context.Background()

	_ = m.SetWithTTL(ctx, "key1", "value1", 60*time.Millisecond)

	if !m.Has(ctx, "key1") {
		t.Fatal("expected Has to report key1")
	}

	time.Sleep(90 * time.Millisecond)

	if m.Has(ctx, "key1") {
		t.Error("Has must not extend an entry's lifetime")
	}
}

func TestManagerDurableFailureIsNonFatal(t *testing.T) {
	m := NewManager(Options{Durable: failingTier{}})
	ctx := context.Background()

	if err := m.Set(ctx, "key1", "value1"); err != nil {
		t.Fatalf("Set must swallow durable-tier errors, got %v", err)
	}

	// The in-memory copy still serves the current session.
	value, ok := getString(t, m, "key1")
	if !ok || value != "value1" {
		t.Errorf("expected memory tier to serve key1, got %q (%v)", value, ok)
	}

	m.Delete(ctx, "key1")
	m.Clear(ctx)
	m.Cleanup(ctx)
}

func TestManagerPromotionFromDurable(t *testing.T) {
	durable := NewMemoryTier()
	m := NewManager(Options{Durable: durable})
	ctx := context.Background()

	// Simulate an entry written by a previous process: durable only.
	data, _ := json.Marshal("persisted")
	entry := newEntry(data, time.Minute, time.Now())
	if err := durable.Set(ctx, "key1", entry); err != nil {
		t.Fatalf("seed durable tier: %v", err)
	}

	value, ok := getString(t, m, "key1")
	if !ok || value != "persisted" {
		t.Fatalf("expected durable hit, got %q (%v)", value, ok)
	}

	// The hit must have been promoted into memory.
	if _, exists, _ := m.memory.Get(ctx, "key1"); !exists {
		t.Error("expected durable hit to be promoted into memory")
	}
}

func TestManagerGetStaleReturnsExpired(t *testing.T) {
	durable := NewMemoryTier()
	m := NewManager(Options{Durable: durable})
	ctx := context.Background()

	_ = m.SetWithTTL(ctx, "key1", "stale-value", 30*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	// The fresh path reports a miss and evicts the memory copy...
	if _, ok := m.Get(ctx, "key1"); ok {
		t.Fatal("expected expired entry to be a miss")
	}

	// ...but the stale path still serves the durable copy.
	raw, ok := m.GetStale(ctx, "key1")
	if !ok {
		t.Fatal("expected stale fallback from the durable tier")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s != "stale-value" {
		t.Errorf("expected stale-value, got %q (err %v)", s, err)
	}
}

func TestManagerCleanupSweepsBothTiers(t *testing.T) {
	durable := NewMemoryTier()
	m := NewManager(Options{Durable: durable, StaleRetention: 10 * time.Millisecond})
	ctx := context.Background()

	_ = m.SetWithTTL(ctx, "old", "v", 10*time.Millisecond)
	_ = m.Set(ctx, "fresh", "v")

	time.Sleep(50 * time.Millisecond)
	m.Cleanup(ctx)

	if _, exists, _ := m.memory.Get(ctx, "old"); exists {
		t.Error("expected cleanup to sweep expired memory entry")
	}
	if _, exists, _ := durable.Get(ctx, "old"); exists {
		t.Error("expected cleanup to drop durable entry past stale retention")
	}
	if _, exists, _ := durable.Get(ctx, "fresh"); !exists {
		t.Error("expected cleanup to keep fresh durable entry")
	}

	stats := m.Stats(ctx)
	if stats.LastCleanup.IsZero() {
		t.Error("expected Stats to record the cleanup time")
	}
}

func TestManagerStats(t *testing.T) {
	m := NewManager(Options{})
	ctx := context.Background()

	_ = m.Set(ctx, "key1", "value1")
	m.Get(ctx, "key1") // hit
	m.Get(ctx, "nope") // miss
	m.Get(ctx, "key1") // hit

	stats := m.Stats(ctx)
	if stats.Hits != 2 {
		t.Errorf("expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
	if stats.MemoryEntries != 1 {
		t.Errorf("expected 1 memory entry, got %d", stats.MemoryEntries)
	}

	hitRate := m.HitRate()
	want := 100.0 * 2 / 3
	if hitRate < want-0.01 || hitRate > want+0.01 {
		t.Errorf("expected hit rate around %.2f, got %.2f", want, hitRate)
	}
}

func TestEntryValid(t *testing.T) {
	now := time.Now()
	entry := newEntry(json.RawMessage(`1`), time.Minute, now)

	if !entry.ExpiresAt.After(entry.Timestamp) {
		t.Error("ExpiresAt must be after Timestamp")
	}
	if !entry.Valid(now) {
		t.Error("entry must be valid at write time")
	}
	if !entry.Valid(now.Add(time.Minute)) {
		t.Error("entry must be valid exactly at expiry")
	}
	if entry.Valid(now.Add(time.Minute + time.Nanosecond)) {
		t.Error("entry must be invalid after expiry")
	}
}
