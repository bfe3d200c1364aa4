// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/reelrate/edge/internal/cache"
	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/metrics"
)

// FetchFunc performs the actual upstream call and returns the value to
// cache. The returned value must be JSON-serializable.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Result is the outcome of a Fetcher.Do call.
type Result struct {
	// Data is the JSON payload served to the caller.
	Data json.RawMessage

	// Source records where Data came from: "cache", "network" or "stale".
	Source string
}

// Source values reported in Result and request logs.
const (
	SourceCache   = "cache"
	SourceNetwork = "network"
	SourceStale   = "stale"
)

// Fetcher implements the cache-then-network strategy over a cache.Manager.
//
// Concurrent calls for the same key are collapsed into a single upstream
// request via singleflight, and each upstream is guarded by its own
// circuit breaker. Upstream outcomes feed the connectivity Monitor.
//
// Thread Safety: safe for concurrent use.
type Fetcher struct {
	cache    *cache.Manager
	monitor  *Monitor
	breakers *breakerSet
	group    singleflight.Group
}

// NewFetcher creates a Fetcher over the given cache and monitor.
func NewFetcher(c *cache.Manager, m *Monitor) *Fetcher {
	return &Fetcher{
		cache:    c,
		monitor:  m,
		breakers: newBreakerSet(),
	}
}

// Do returns the payload for key, consulting the cache before the
// network.
//
// Parameters:
//   - key: cache key, built by the callers from internal/cache key helpers
//   - ttl: freshness window for a newly fetched payload
//   - upstream: circuit breaker and metrics label, e.g. "tmdb" or "jikan"
//   - fn: the upstream call, invoked only when the cache cannot answer
//
// Behavior:
//   - A valid cached entry short-circuits the call.
//   - Offline with any cached entry (fresh or stale) serves it without a
//     network attempt. Offline with nothing cached fails with
//     ErrOfflineNoCache.
//   - An upstream failure falls back to a stale entry when one exists,
//     otherwise returns ErrUpstreamUnavailable wrapping the cause.
func (f *Fetcher) Do(ctx context.Context, key string, ttl time.Duration, upstream string, fn FetchFunc) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.FetchDuration.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
	}()

	if data, ok := f.cache.Get(ctx, key); ok {
		metrics.RecordFetch(upstream, "cached")
		return Result{Data: data, Source: SourceCache}, nil
	}

	if !f.monitor.Online() {
		if data, ok := f.cache.GetStale(ctx, key); ok {
			logging.Ctx(ctx).Debug().Str("key", key).Msg("offline, serving cached data")
			metrics.RecordFetch(upstream, "stale_fallback")
			return Result{Data: data, Source: SourceStale}, nil
		}
		metrics.RecordFetch(upstream, "offline_no_cache")
		return Result{}, fmt.Errorf("fetch %q: %w", key, ErrOfflineNoCache)
	}

	data, err, _ := f.group.Do(key, func() (interface{}, error) {
		return f.fetchAndStore(ctx, key, ttl, upstream, fn)
	})
	if err != nil {
		if stale, ok := f.cache.GetStale(ctx, key); ok {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("upstream failed, serving stale cache")
			metrics.RecordFetch(upstream, "stale_fallback")
			return Result{Data: stale, Source: SourceStale}, nil
		}
		metrics.RecordFetch(upstream, "error")
		return Result{}, fmt.Errorf("fetch %q: %w: %w", key, ErrUpstreamUnavailable, err)
	}

	metrics.RecordFetch(upstream, "fresh")
	return Result{Data: data.(json.RawMessage), Source: SourceNetwork}, nil
}

// fetchAndStore performs the guarded upstream call and writes the result
// through the cache. Exactly one goroutine per key runs this at a time.
func (f *Fetcher) fetchAndStore(ctx context.Context, key string, ttl time.Duration, upstream string, fn FetchFunc) (json.RawMessage, error) {
	payload, err := f.breakers.execute(upstream, func() ([]byte, error) {
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	if err != nil {
		f.monitor.MarkFailure()
		return nil, err
	}
	f.monitor.MarkSuccess()

	if err := f.cache.SetWithTTL(ctx, key, json.RawMessage(payload), ttl); err != nil {
		// The fresh payload is still good even if caching it failed.
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache fetched payload")
	}
	return json.RawMessage(payload), nil
}
