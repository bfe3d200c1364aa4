// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reelrate/edge/internal/cache"
)

// mockServer implements HTTPServer.
type mockServer struct {
	started  chan struct{}
	release  chan error
	shutdown atomic.Bool
}

func newMockServer() *mockServer {
	return &mockServer{started: make(chan struct{}), release: make(chan error)}
}

func (m *mockServer) ListenAndServe() error {
	close(m.started)
	return <-m.release
}

func (m *mockServer) Shutdown(ctx context.Context) error {
	m.shutdown.Store(true)
	m.release <- nil
	return nil
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	srv := newMockServer()
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-srv.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if !srv.shutdown.Load() {
		t.Error("Shutdown was not called")
	}
}

func TestHTTPServiceStartupFailure(t *testing.T) {
	srv := newMockServer()
	svc := NewHTTPServerService(srv, time.Second)

	done := make(chan error, 1)
	go func() { done <- svc.Serve(context.Background()) }()

	<-srv.started
	srv.release <- errors.New("bind: address already in use")

	select {
	case err := <-done:
		if err == nil {
			t.Error("Serve() = nil, want bind error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after server error")
	}
}

func TestRunnerServicePassesThrough(t *testing.T) {
	var ran atomic.Bool
	svc := NewRunnerService("probe", func(ctx context.Context) error {
		ran.Store(true)
		<-ctx.Done()
		return ctx.Err()
	})
	if svc.String() != "probe" {
		t.Errorf("String() = %q, want probe", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return")
	}
	if !ran.Load() {
		t.Error("run loop never started")
	}
}

func TestCacheCleanupServiceSweeps(t *testing.T) {
	manager := cache.NewManager(cache.Options{DefaultTTL: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.SetWithTTL(ctx, "cleanup_probe", "v", time.Nanosecond); err != nil {
		t.Fatal(err)
	}

	svc := NewCacheCleanupService(manager, 10*time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for manager.Stats(ctx).MemoryEntries != 0 {
		select {
		case <-deadline:
			t.Fatal("sweep never removed the expired entry")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
