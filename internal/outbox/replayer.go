// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package outbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/reelrate/edge/internal/fetch"
	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/metrics"
)

// MaxAttempts is the delivery budget per entry. Counting is cumulative
// across replay cycles; an entry past the budget is retired.
const MaxAttempts = 8

// DefaultSweepInterval is how often the replayer sweeps the queue even
// without an online transition.
const DefaultSweepInterval = 5 * time.Minute

// Sender delivers one entry. The default implementation sends HTTP; tests
// substitute their own.
type Sender interface {
	Send(ctx context.Context, entry *Entry) error
}

// HTTPSender delivers entries as real HTTP requests with the entry's
// idempotency key attached.
type HTTPSender struct {
	Client *http.Client
}

// Send performs the entry's request. Any 2xx response counts as
// delivered.
func (s *HTTPSender) Send(ctx context.Context, entry *Entry) error {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	var body io.Reader = http.NoBody
	if len(entry.Body) > 0 {
		body = bytes.NewReader(entry.Body)
	}
	req, err := http.NewRequestWithContext(ctx, entry.Method, entry.URL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", entry.IdempotencyKey)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

// Replayer drains the outbox when the process is online.
//
// Delivery order is oldest first. A failing entry is attempted up to
// three times per cycle with exponential backoff, then left pending for
// the next cycle; its cumulative attempt count is capped by MaxAttempts.
type Replayer struct {
	store   *Store
	monitor *fetch.Monitor
	sender  Sender

	sweepInterval time.Duration
	trigger       chan struct{}
}

// ReplayerOptions configures a Replayer.
type ReplayerOptions struct {
	Store   *Store
	Monitor *fetch.Monitor

	// Sender overrides HTTP delivery, mainly for tests.
	Sender Sender

	// SweepInterval overrides the timer-driven sweep cadence.
	SweepInterval time.Duration
}

// NewReplayer creates a Replayer and subscribes it to the monitor's
// online transitions.
func NewReplayer(opts ReplayerOptions) *Replayer {
	sender := opts.Sender
	if sender == nil {
		sender = &HTTPSender{}
	}
	interval := opts.SweepInterval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	r := &Replayer{
		store:         opts.Store,
		monitor:       opts.Monitor,
		sender:        sender,
		sweepInterval: interval,
		trigger:       make(chan struct{}, 1),
	}
	if opts.Monitor != nil {
		opts.Monitor.Subscribe(func(online bool) {
			if online {
				r.Kick()
			}
		})
	}
	return r
}

// Kick requests an immediate replay cycle. Safe to call from any
// goroutine; extra kicks while one is queued are coalesced.
func (r *Replayer) Kick() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Run replays the queue until ctx is cancelled.
func (r *Replayer) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.trigger:
		case <-ticker.C:
		}
		r.replayAll(ctx)
	}
}

// replayAll attempts delivery of every pending entry, oldest first.
func (r *Replayer) replayAll(ctx context.Context) {
	if r.monitor != nil && !r.monitor.Online() {
		return
	}

	pending, err := r.store.GetPending(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("outbox replay: listing pending entries failed")
		return
	}
	if len(pending) == 0 {
		return
	}
	logging.Info().Int("pending", len(pending)).Msg("replaying outbox")

	for _, entry := range pending {
		if ctx.Err() != nil {
			return
		}
		r.replayEntry(ctx, entry)
	}
}

// replayEntry delivers one entry with per-cycle backoff and cumulative
// budget accounting.
func (r *Replayer) replayEntry(ctx context.Context, entry *Entry) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2),
		ctx,
	)

	err := backoff.Retry(func() error {
		return r.sender.Send(ctx, entry)
	}, policy)
	if err == nil {
		if err := r.store.Confirm(ctx, entry.ID); err != nil {
			logging.Error().Err(err).Str("entry_id", entry.ID).Msg("outbox confirm failed after delivery")
			return
		}
		metrics.OutboxReplays.WithLabelValues("delivered").Inc()
		logging.Info().Str("entry_id", entry.ID).Str("url", entry.URL).Msg("outbox entry delivered")
		return
	}

	metrics.OutboxReplays.WithLabelValues("failed").Inc()
	attempts, markErr := r.store.MarkAttempt(ctx, entry.ID, err.Error())
	if markErr != nil {
		logging.Error().Err(markErr).Str("entry_id", entry.ID).Msg("outbox attempt bookkeeping failed")
		return
	}
	logging.Warn().Err(err).Str("entry_id", entry.ID).Int("attempts", attempts).Msg("outbox delivery failed")

	if attempts >= MaxAttempts {
		if err := r.store.Retire(ctx, entry.ID, "attempt budget exhausted"); err != nil {
			logging.Error().Err(err).Str("entry_id", entry.ID).Msg("outbox retire failed")
		}
	}
}
