// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package fetch

import (
	"errors"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/metrics"
)

// breakerSet holds one circuit breaker per upstream so a broken movie API
// cannot reject anime traffic.
type breakerSet struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
}

func newBreakerSet() *breakerSet {
	return &breakerSet{breakers: make(map[string]*gobreaker.CircuitBreaker[[]byte])}
}

// get returns the breaker for the named upstream, creating it on first
// use. Configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func (s *breakerSet) get(upstream string) *gobreaker.CircuitBreaker[[]byte] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, ok := s.breakers[upstream]; ok {
		return cb
	}

	metrics.CircuitBreakerState.WithLabelValues(upstream).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        upstream,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().Str("upstream", upstream).Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("opening circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := breakerStateString(from)
			toStr := breakerStateString(to)
			logging.Info().Str("upstream", name).Str("from", fromStr).Str("to", toStr).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	s.breakers[upstream] = cb
	return cb
}

// execute runs fn through the upstream's breaker and records the outcome.
func (s *breakerSet) execute(upstream string, fn func() ([]byte, error)) ([]byte, error) {
	result, err := s.get(upstream).Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(upstream, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(upstream, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(upstream, "failure").Inc()
	}
	return result, err
}

func breakerStateString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
