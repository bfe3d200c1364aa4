// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for production observability:
// - Two-tier metadata cache efficiency (memory + BadgerDB)
// - Fetch orchestration outcomes (fresh, cached, stale fallback, offline)
// - Gateway request policies and cache strategies
// - Outbox depth and replay results
// - Circuit breaker state per upstream

var (
	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"tier"}, // "memory", "badger"
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses across both tiers",
		},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache entries evicted",
		},
		[]string{"tier", "reason"}, // reason: "expired", "deleted", "cleared"
	)

	CachePromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_promotions_total",
			Help: "Total number of entries promoted from the durable tier into memory",
		},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of entries per cache tier",
		},
		[]string{"tier"},
	)

	CacheStorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_storage_errors_total",
			Help: "Total number of non-fatal durable-tier read/write errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "clear", "sweep"
	)

	// Fetch Orchestration Metrics
	FetchResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_results_total",
			Help: "Total number of orchestrated fetches by outcome",
		},
		[]string{"upstream", "outcome"}, // outcome: "cached", "fresh", "stale_fallback", "offline_no_cache", "error"
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fetch_duration_seconds",
			Help:    "Duration of upstream fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"upstream"},
	)

	OnlineStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "online_status",
			Help: "Connectivity estimate (1 = online, 0 = offline)",
		},
	)

	// Gateway Metrics
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of gateway requests by policy and result",
		},
		[]string{"policy", "result"}, // result: "network", "cache_fallback", "offline", "offline_fallback", "denied", "error"
	)

	GatewayCacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_cache_writes_total",
			Help: "Total number of responses written to the named response caches",
		},
		[]string{"cache"}, // "static", "dynamic"
	)

	GatewayState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_lifecycle_state",
			Help: "Gateway lifecycle state (0=installing, 1=waiting, 2=active, 3=redundant)",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Outbox Metrics
	OutboxPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "outbox_pending_entries",
			Help: "Current number of unconfirmed outbox entries",
		},
	)

	OutboxEnqueued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outbox_enqueued_total",
			Help: "Total number of mutations enqueued to the outbox",
		},
	)

	OutboxReplays = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_replays_total",
			Help: "Total number of outbox replay attempts by result",
		},
		[]string{"result"}, // "success", "failure", "retired"
	)

	// Push Metrics
	PushPayloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_payloads_total",
			Help: "Total number of push payloads processed",
		},
		[]string{"result"}, // "ok", "defaulted"
	)

	PushClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "push_clients_connected",
			Help: "Current number of WebSocket clients registered with the push hub",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breakers by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)
)

// RecordAPIRequest records metrics for an API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFetch records the outcome of an orchestrated fetch.
func RecordFetch(upstream, outcome string) {
	FetchResults.WithLabelValues(upstream, outcome).Inc()
}

// SetOnline records the current connectivity estimate.
func SetOnline(online bool) {
	if online {
		OnlineStatus.Set(1)
	} else {
		OnlineStatus.Set(0)
	}
}
