// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func newTestLifecycle(t *testing.T, skipWaiting bool) (*Lifecycle, *ResponseCache, *ResponseCache) {
	t.Helper()
	db := openTestDB(t)
	static := NewResponseCache(db, StaticCacheName)
	dynamic := NewResponseCache(db, DynamicCacheName)
	l := NewLifecycle(LifecycleOptions{DB: db, Static: static, Dynamic: dynamic, SkipWaiting: skipWaiting})
	return l, static, dynamic
}

func TestLifecycleInstallMovesToWaiting(t *testing.T) {
	l, _, _ := newTestLifecycle(t, false)

	if l.State() != StateInstalling {
		t.Fatalf("expected installing, got %q", l.State())
	}
	if err := l.Install(context.Background()); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if l.State() != StateWaiting {
		t.Errorf("expected waiting, got %q", l.State())
	}

	if err := l.Activate(context.Background()); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if l.State() != StateActive {
		t.Errorf("expected active, got %q", l.State())
	}
}

func TestLifecycleSkipWaitingActivatesImmediately(t *testing.T) {
	l, _, _ := newTestLifecycle(t, true)

	if err := l.Install(context.Background()); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if l.State() != StateActive {
		t.Errorf("expected active after skip-waiting install, got %q", l.State())
	}
}

func TestLifecycleInvalidTransitions(t *testing.T) {
	l, _, _ := newTestLifecycle(t, false)

	// Activate before install must fail.
	if err := l.Activate(context.Background()); err == nil {
		t.Error("expected activate from installing to fail")
	}

	if err := l.Install(context.Background()); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	// Double install must fail.
	if err := l.Install(context.Background()); err == nil {
		t.Error("expected second install to fail")
	}
}

func TestLifecyclePrecacheFailuresAreNonFatal(t *testing.T) {
	l, _, _ := newTestLifecycle(t, false)
	l.precache = func(ctx context.Context, path string) error {
		return errors.New("origin down")
	}

	if err := l.Install(context.Background()); err != nil {
		t.Fatalf("a failing precache must not fail install: %v", err)
	}
	if l.State() != StateWaiting {
		t.Errorf("expected waiting, got %q", l.State())
	}
}

func TestActivatePurgesObsoleteGenerations(t *testing.T) {
	db := openTestDB(t)
	static := NewResponseCache(db, StaticCacheName)
	dynamic := NewResponseCache(db, DynamicCacheName)
	ctx := context.Background()

	// Entries left by older generations.
	old := NewResponseCache(db, "reelrate-static-v0")
	stored := &StoredResponse{Status: 200, Body: []byte("old shell")}
	if err := old.Put(ctx, http.MethodGet, "https://a/", stored); err != nil {
		t.Fatalf("seed old cache: %v", err)
	}
	if err := static.Put(ctx, http.MethodGet, "https://a/", stored); err != nil {
		t.Fatalf("seed current cache: %v", err)
	}

	l := NewLifecycle(LifecycleOptions{DB: db, Static: static, Dynamic: dynamic})
	if err := l.Install(ctx); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if err := l.Activate(ctx); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	if n, _ := old.Len(ctx); n != 0 {
		t.Errorf("expected obsolete generation to be purged, got %d entries", n)
	}
	if n, _ := static.Len(ctx); n != 1 {
		t.Errorf("expected current generation to survive, got %d entries", n)
	}
}

func TestRetire(t *testing.T) {
	l, _, _ := newTestLifecycle(t, true)
	if err := l.Install(context.Background()); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	l.Retire()
	if l.State() != StateRedundant {
		t.Errorf("expected redundant, got %q", l.State())
	}
}
