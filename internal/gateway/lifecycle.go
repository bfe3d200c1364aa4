// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package gateway

import (
	"context"
	"fmt"
	"sync"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/metrics"
)

// State is a lifecycle phase of the gateway.
type State string

const (
	// StateInstalling means the app shell precache is in progress.
	StateInstalling State = "installing"

	// StateWaiting means installation finished and the gateway is holding
	// back until activation is requested.
	StateWaiting State = "waiting"

	// StateActive means the gateway is intercepting and caching traffic.
	StateActive State = "active"

	// StateRedundant means a newer generation took over.
	StateRedundant State = "redundant"
)

func stateValue(s State) float64 {
	switch s {
	case StateInstalling:
		return 0
	case StateWaiting:
		return 1
	case StateActive:
		return 2
	case StateRedundant:
		return 3
	default:
		return -1
	}
}

// StaticManifest lists the app shell paths precached during
// installation. Matches the shell the web app needs to render offline.
var StaticManifest = []string{
	"/",
	"/manifest.json",
	"/offline.html",
}

// Lifecycle drives the gateway through install, waiting and activation.
//
// Install precaches the app shell into the static cache. Precache
// failures for individual paths are logged and skipped so one missing
// asset cannot block installation. Activate purges response caches left
// by previous generations, then starts interception.
//
// Thread Safety: safe for concurrent use.
type Lifecycle struct {
	mu      sync.Mutex
	state   State
	db      *badger.DB
	static  *ResponseCache
	dynamic *ResponseCache

	// precache fetches one app shell path and stores it in the static
	// cache. Injected by the Gateway so Lifecycle stays transport-free.
	precache func(ctx context.Context, path string) error

	// skipWaiting activates immediately after install, without waiting
	// for an explicit activation request.
	skipWaiting bool
}

// LifecycleOptions configures a Lifecycle.
type LifecycleOptions struct {
	DB      *badger.DB
	Static  *ResponseCache
	Dynamic *ResponseCache

	// SkipWaiting moves straight from installing to active.
	SkipWaiting bool
}

// NewLifecycle creates a Lifecycle in the installing state.
func NewLifecycle(opts LifecycleOptions) *Lifecycle {
	metrics.GatewayState.Set(stateValue(StateInstalling))
	return &Lifecycle{
		state:       StateInstalling,
		db:          opts.DB,
		static:      opts.Static,
		dynamic:     opts.Dynamic,
		skipWaiting: opts.SkipWaiting,
	}
}

// State returns the current lifecycle phase.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Install precaches the app shell and moves to waiting (or directly to
// active when SkipWaiting is set). Individual precache failures are
// non-fatal.
func (l *Lifecycle) Install(ctx context.Context) error {
	l.mu.Lock()
	if l.state != StateInstalling {
		state := l.state
		l.mu.Unlock()
		return fmt.Errorf("install from state %q", state)
	}
	precache := l.precache
	l.mu.Unlock()

	if precache != nil {
		for _, path := range StaticManifest {
			if err := precache(ctx, path); err != nil {
				logging.Warn().Err(err).Str("path", path).Msg("precache failed, skipping asset")
			}
		}
	}

	l.setState(StateWaiting)
	logging.Info().Str("cache", l.static.Name()).Msg("gateway installed")

	if l.skipWaiting {
		return l.Activate(ctx)
	}
	return nil
}

// Activate purges obsolete cache generations and starts interception.
// Valid from waiting, and from installing only via Install.
func (l *Lifecycle) Activate(ctx context.Context) error {
	l.mu.Lock()
	if l.state != StateWaiting {
		state := l.state
		l.mu.Unlock()
		return fmt.Errorf("activate from state %q", state)
	}
	l.mu.Unlock()

	if err := l.purgeObsolete(ctx); err != nil {
		// Stale caches waste space but do not break correctness.
		logging.Error().Err(err).Msg("failed to purge obsolete caches")
	}

	l.setState(StateActive)
	logging.Info().Msg("gateway activated")
	return nil
}

// Retire marks this generation redundant. New traffic passes through
// uncached afterwards.
func (l *Lifecycle) Retire() {
	l.setState(StateRedundant)
	logging.Info().Msg("gateway retired")
}

// purgeObsolete drops response caches whose names are not the current
// static or dynamic generation.
func (l *Lifecycle) purgeObsolete(ctx context.Context) error {
	names, err := ListCacheNames(ctx, l.db)
	if err != nil {
		return err
	}
	current := map[string]struct{}{
		l.static.Name():  {},
		l.dynamic.Name(): {},
	}
	for _, name := range names {
		if _, ok := current[name]; ok {
			continue
		}
		logging.Info().Str("cache", name).Msg("purging obsolete response cache")
		obsolete := NewResponseCache(l.db, name)
		if err := obsolete.Purge(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lifecycle) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
	metrics.GatewayState.Set(stateValue(s))
}
