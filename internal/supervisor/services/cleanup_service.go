// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package services

import (
	"context"
	"time"

	"github.com/reelrate/edge/internal/cache"
	"github.com/reelrate/edge/internal/logging"
)

// CacheCleanupService sweeps expired entries out of both cache tiers on
// a fixed interval. Between sweeps, expired entries are still evicted
// lazily on read.
type CacheCleanupService struct {
	manager  *cache.Manager
	interval time.Duration
}

// NewCacheCleanupService creates the periodic sweep service.
func NewCacheCleanupService(manager *cache.Manager, interval time.Duration) *CacheCleanupService {
	if interval <= 0 {
		interval = cache.CleanupInterval
	}
	return &CacheCleanupService{manager: manager, interval: interval}
}

// Serve implements suture.Service.
func (s *CacheCleanupService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.manager.Cleanup(ctx)
			logging.Debug().Msg("Cache cleanup sweep complete")
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *CacheCleanupService) String() string {
	return "cache-cleanup"
}
