// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package services

import "context"

// RunnerService wraps a context-aware run loop as a supervised service.
// The push hub, connectivity monitor, and outbox replayer all expose
// Run(ctx) error and plug in directly.
type RunnerService struct {
	name string
	run  func(ctx context.Context) error
}

// NewRunnerService wraps run under the given name.
func NewRunnerService(name string, run func(ctx context.Context) error) *RunnerService {
	return &RunnerService{name: name, run: run}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.run(ctx)
}

// String implements fmt.Stringer for supervisor logs.
func (s *RunnerService) String() string {
	return s.name
}
