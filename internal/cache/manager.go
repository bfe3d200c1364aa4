// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/metrics"
)

const (
	// DefaultTTL is how long entries live when the caller does not override.
	DefaultTTL = 30 * time.Minute

	// DefaultStaleRetention is how long after expiry the durable tier keeps
	// entries around as stale-fallback candidates.
	DefaultStaleRetention = 24 * time.Hour

	// CleanupInterval is how often the housekeeping sweep runs. The sweep is
	// not required for correctness since Get self-heals.
	CleanupInterval = 5 * time.Minute
)

// Stats is a snapshot of cache performance counters.
type Stats struct {
	Hits           int64     `json:"hits"`
	Misses         int64     `json:"misses"`
	Evictions      int64     `json:"evictions"`
	Promotions     int64     `json:"promotions"`
	MemoryEntries  int       `json:"memory_entries"`
	DurableEntries int       `json:"durable_entries"`
	LastCleanup    time.Time `json:"last_cleanup"`
}

// Options configures a Manager.
type Options struct {
	// Durable is the tier-2 store. Nil means memory-only operation, which
	// keeps the current session working but loses stale fallbacks across
	// restarts.
	Durable Tier

	// DefaultTTL overrides the 30-minute default entry lifetime.
	DefaultTTL time.Duration

	// StaleRetention overrides how long expired entries stay in the durable
	// tier for stale-while-fallback.
	StaleRetention time.Duration
}

// Manager coordinates the two cache tiers.
//
// Reads check memory first, then the durable tier, promoting durable hits
// back into memory. Expired entries are lazily evicted from memory on read
// but retained in the durable tier within the stale-retention window, so a
// failed upstream fetch can still fall back to them via GetStale.
//
// Durable-tier errors are never fatal: they are logged, counted, and the
// memory tier keeps serving the current session.
type Manager struct {
	memory  Tier
	durable Tier

	defaultTTL     time.Duration
	staleRetention time.Duration

	statsMu sync.Mutex
	stats   Stats
}

// NewManager creates a Manager with an in-memory tier-1 and the given
// optional durable tier-2.
func NewManager(opts Options) *Manager {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = DefaultTTL
	}
	if opts.StaleRetention <= 0 {
		opts.StaleRetention = DefaultStaleRetention
	}
	return &Manager{
		memory:         NewMemoryTier(),
		durable:        opts.Durable,
		defaultTTL:     opts.DefaultTTL,
		staleRetention: opts.StaleRetention,
	}
}

// Set stores value under key with the default TTL.
func (m *Manager) Set(ctx context.Context, key string, value interface{}) error {
	return m.SetWithTTL(ctx, key, value, m.defaultTTL)
}

// SetWithTTL stores value under key with a custom TTL.
//
// The value is serialized once and the resulting entry written to both
// tiers. A durable-tier write failure is logged and swallowed: the
// in-memory copy still serves the current session. Only serialization
// errors are returned.
func (m *Manager) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %q: %w", key, err)
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	entry := newEntry(data, ttl, time.Now())
	_ = m.memory.Set(ctx, key, entry)

	if m.durable != nil {
		if err := m.durable.Set(ctx, key, entry); err != nil {
			metrics.CacheStorageErrors.WithLabelValues("set").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("durable cache write failed, serving from memory only")
		}
	}
	return nil
}

// Get returns the cached payload for key if present and unexpired.
//
// Memory is checked first; an expired memory entry is deleted as a side
// effect of the lookup (lazy eviction). A valid durable-tier hit is
// promoted back into memory. Expired durable entries are retained and
// reported as a miss; GetStale is the path that reads them.
func (m *Manager) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	now := time.Now()

	if entry, ok, _ := m.memory.Get(ctx, key); ok {
		if entry.Valid(now) {
			m.recordHit()
			metrics.CacheHits.WithLabelValues("memory").Inc()
			return entry.Data, true
		}
		_ = m.memory.Delete(ctx, key)
		m.recordEviction()
		metrics.CacheEvictions.WithLabelValues("memory", "expired").Inc()
	}

	if m.durable != nil {
		entry, ok, err := m.durable.Get(ctx, key)
		switch {
		case err != nil:
			metrics.CacheStorageErrors.WithLabelValues("get").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("durable cache read failed")
		case ok && entry.Valid(now):
			_ = m.memory.Set(ctx, key, entry)
			m.recordHit()
			m.recordPromotion()
			metrics.CacheHits.WithLabelValues("badger").Inc()
			metrics.CachePromotions.Inc()
			return entry.Data, true
		}
	}

	m.recordMiss()
	metrics.CacheMisses.Inc()
	return nil, false
}

// GetStale returns the cached payload for key regardless of expiry, without
// evicting anything. The durable tier is preferred since it retains expired
// entries; a still-resident memory entry is used as a last resort.
//
// This is the stale-while-fallback read path: availability over freshness
// when the upstream is down.
func (m *Manager) GetStale(ctx context.Context, key string) (json.RawMessage, bool) {
	if m.durable != nil {
		entry, ok, err := m.durable.Get(ctx, key)
		if err != nil {
			metrics.CacheStorageErrors.WithLabelValues("get").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("durable cache stale read failed")
		} else if ok {
			return entry.Data, true
		}
	}
	if entry, ok, _ := m.memory.Get(ctx, key); ok {
		return entry.Data, true
	}
	return nil, false
}

// Delete removes key from both tiers unconditionally.
func (m *Manager) Delete(ctx context.Context, key string) {
	_ = m.memory.Delete(ctx, key)
	m.recordEviction()
	metrics.CacheEvictions.WithLabelValues("memory", "deleted").Inc()

	if m.durable != nil {
		if err := m.durable.Delete(ctx, key); err != nil {
			metrics.CacheStorageErrors.WithLabelValues("delete").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("durable cache delete failed")
		}
	}
}

// Clear removes every entry in the cache namespace from both tiers. This is
// the user-facing "give me fresh data" path.
func (m *Manager) Clear(ctx context.Context) {
	_ = m.memory.Clear(ctx)
	metrics.CacheEvictions.WithLabelValues("memory", "cleared").Inc()

	if m.durable != nil {
		if err := m.durable.Clear(ctx); err != nil {
			metrics.CacheStorageErrors.WithLabelValues("clear").Inc()
			logging.Ctx(ctx).Warn().Err(err).Msg("durable cache clear failed")
		}
	}
}

// Has reports whether key resolves to a valid cached value. It does not
// extend or refresh the entry.
func (m *Manager) Has(ctx context.Context, key string) bool {
	_, ok := m.Get(ctx, key)
	return ok
}

// Cleanup performs one housekeeping pass: expired entries are swept from
// memory, and durable entries whose expiry lies beyond the stale-retention
// window are dropped for good. Invoked every CleanupInterval by the
// supervised cleanup service; Get's lazy eviction keeps the cache correct
// even if this never runs.
func (m *Manager) Cleanup(ctx context.Context) {
	now := time.Now()

	removed, _ := m.memory.Sweep(ctx, func(e Entry) bool {
		return !e.Valid(now)
	})
	if removed > 0 {
		metrics.CacheEvictions.WithLabelValues("memory", "expired").Add(float64(removed))
	}

	dropped := 0
	if m.durable != nil {
		cutoff := now.Add(-m.staleRetention)
		var err error
		dropped, err = m.durable.Sweep(ctx, func(e Entry) bool {
			return e.ExpiresAt.Before(cutoff)
		})
		if err != nil {
			metrics.CacheStorageErrors.WithLabelValues("sweep").Inc()
			logging.Ctx(ctx).Warn().Err(err).Msg("durable cache sweep failed")
		} else if dropped > 0 {
			metrics.CacheEvictions.WithLabelValues("badger", "expired").Add(float64(dropped))
		}
	}

	m.statsMu.Lock()
	m.stats.Evictions += int64(removed + dropped)
	m.stats.LastCleanup = now
	m.statsMu.Unlock()

	if removed+dropped > 0 {
		logging.Ctx(ctx).Debug().Int("memory", removed).Int("durable", dropped).Msg("cache cleanup removed expired entries")
	}
}

// Stats returns a snapshot of the cache counters and tier sizes.
func (m *Manager) Stats(ctx context.Context) Stats {
	m.statsMu.Lock()
	snapshot := m.stats
	m.statsMu.Unlock()

	if n, err := m.memory.Len(ctx); err == nil {
		snapshot.MemoryEntries = n
		metrics.CacheEntries.WithLabelValues("memory").Set(float64(n))
	}
	if m.durable != nil {
		if n, err := m.durable.Len(ctx); err == nil {
			snapshot.DurableEntries = n
			metrics.CacheEntries.WithLabelValues("badger").Set(float64(n))
		}
	}
	return snapshot
}

// HitRate returns the cache hit rate as a percentage.
func (m *Manager) HitRate() float64 {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()

	total := m.stats.Hits + m.stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(m.stats.Hits) / float64(total) * 100.0
}

func (m *Manager) recordHit() {
	m.statsMu.Lock()
	m.stats.Hits++
	m.statsMu.Unlock()
}

func (m *Manager) recordMiss() {
	m.statsMu.Lock()
	m.stats.Misses++
	m.statsMu.Unlock()
}

func (m *Manager) recordEviction() {
	m.statsMu.Lock()
	m.stats.Evictions++
	m.statsMu.Unlock()
}

func (m *Manager) recordPromotion() {
	m.statsMu.Lock()
	m.stats.Promotions++
	m.statsMu.Unlock()
}
