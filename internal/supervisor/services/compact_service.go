// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package services

import (
	"context"
	"time"

	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/outbox"
)

// OutboxCompactService drops delivered outbox entries older than the
// retention window so the done set does not grow without bound.
type OutboxCompactService struct {
	store     *outbox.Store
	interval  time.Duration
	retention time.Duration
}

// NewOutboxCompactService creates the periodic compaction service.
func NewOutboxCompactService(store *outbox.Store, interval, retention time.Duration) *OutboxCompactService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = outbox.DoneRetention
	}
	return &OutboxCompactService{store: store, interval: interval, retention: retention}
}

// Serve implements suture.Service.
func (s *OutboxCompactService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := s.store.Compact(ctx, s.retention)
			if err != nil {
				logging.Warn().Err(err).Msg("Outbox compaction failed")
				continue
			}
			if removed > 0 {
				logging.Debug().Int("removed", removed).Msg("Outbox compaction complete")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *OutboxCompactService) String() string {
	return "outbox-compact"
}
