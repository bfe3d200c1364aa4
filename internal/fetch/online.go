// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package fetch

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/metrics"
)

// DefaultOfflineThreshold is how many consecutive upstream failures flip
// the monitor to offline.
const DefaultOfflineThreshold = 3

// DefaultProbeInterval is how often the monitor probes connectivity while
// offline.
const DefaultProbeInterval = 30 * time.Second

// ProbeFunc checks upstream reachability. It returns nil when the network
// is usable.
type ProbeFunc func(ctx context.Context) error

// HTTPProbe returns a ProbeFunc that issues a HEAD request to target.
// Any response, even an error status, proves the network is reachable.
func HTTPProbe(target string) ProbeFunc {
	client := &http.Client{Timeout: 10 * time.Second}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}
}

// Monitor tracks whether the process should treat itself as online.
//
// Fetcher reports every upstream outcome through MarkSuccess and
// MarkFailure. A run of consecutive failures flips the monitor offline;
// any success flips it back. While offline, Run probes connectivity at a
// fixed interval so recovery does not depend on user traffic.
//
// Thread Safety: all methods are safe for concurrent use.
type Monitor struct {
	mu          sync.Mutex
	online      bool
	failures    int
	threshold   int
	subscribers []func(online bool)

	probe         ProbeFunc
	probeInterval time.Duration
}

// MonitorOptions configures a Monitor. Zero values select the defaults.
type MonitorOptions struct {
	// OfflineThreshold is the consecutive-failure count that flips the
	// monitor offline.
	OfflineThreshold int

	// Probe checks connectivity while offline. Nil disables probing, in
	// which case only a successful upstream call restores online status.
	Probe ProbeFunc

	// ProbeInterval is the delay between probes while offline.
	ProbeInterval time.Duration
}

// NewMonitor creates a Monitor that starts online.
func NewMonitor(opts MonitorOptions) *Monitor {
	threshold := opts.OfflineThreshold
	if threshold <= 0 {
		threshold = DefaultOfflineThreshold
	}
	interval := opts.ProbeInterval
	if interval <= 0 {
		interval = DefaultProbeInterval
	}

	metrics.SetOnline(true)
	return &Monitor{
		online:        true,
		threshold:     threshold,
		probe:         opts.Probe,
		probeInterval: interval,
	}
}

// Online reports the current connectivity status.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// MarkSuccess records a successful upstream call. The first success after
// an offline period flips the monitor back online and notifies
// subscribers.
func (m *Monitor) MarkSuccess() {
	m.mu.Lock()
	m.failures = 0
	changed := !m.online
	m.online = true
	subs := m.snapshotLocked(changed)
	m.mu.Unlock()

	if changed {
		logging.Info().Msg("connectivity restored, back online")
		metrics.SetOnline(true)
		notify(subs, true)
	}
}

// MarkFailure records a failed upstream call. Reaching the configured
// threshold of consecutive failures flips the monitor offline and
// notifies subscribers.
func (m *Monitor) MarkFailure() {
	m.mu.Lock()
	m.failures++
	changed := m.online && m.failures >= m.threshold
	if changed {
		m.online = false
	}
	failures := m.failures
	subs := m.snapshotLocked(changed)
	m.mu.Unlock()

	if changed {
		logging.Warn().Int("consecutive_failures", failures).Msg("connectivity lost, switching to offline mode")
		metrics.SetOnline(false)
		notify(subs, false)
	}
}

// Subscribe registers a callback invoked on every online/offline
// transition. Callbacks run on the goroutine that caused the transition
// and must not block.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Run probes connectivity at the configured interval while offline and
// blocks until ctx is cancelled. It is a no-op when no probe is
// configured.
func (m *Monitor) Run(ctx context.Context) error {
	if m.probe == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(m.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if m.Online() {
				continue
			}
			if err := m.probe(ctx); err != nil {
				logging.Debug().Err(err).Msg("connectivity probe failed")
				continue
			}
			m.MarkSuccess()
		}
	}
}

// snapshotLocked copies the subscriber list when a transition happened so
// callbacks can run outside the lock. Callers must hold mu.
func (m *Monitor) snapshotLocked(changed bool) []func(bool) {
	if !changed || len(m.subscribers) == 0 {
		return nil
	}
	subs := make([]func(bool), len(m.subscribers))
	copy(subs, m.subscribers)
	return subs
}

func notify(subs []func(bool), online bool) {
	for _, fn := range subs {
		fn(online)
	}
}
