// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close badger: %v", err)
		}
	})
	return NewStore(db)
}

func reviewRequest(body string) Request {
	return Request{
		Method: "POST",
		URL:    "https://myproject.supabase.co/rest/v1/reviews",
		Body:   json.RawMessage(body),
	}
}

func TestEnqueueAndGetPending(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id1, err := store.Enqueue(ctx, reviewRequest(`{"rating":5}`))
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	id2, err := store.Enqueue(ctx, reviewRequest(`{"rating":3}`))
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	pending, err := store.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending entries, got %d", len(pending))
	}
	// Oldest first.
	if pending[0].ID != id1 || pending[1].ID != id2 {
		t.Errorf("expected order [%s %s], got [%s %s]", id1, id2, pending[0].ID, pending[1].ID)
	}

	if pending[0].IdempotencyKey == "" {
		t.Error("expected a generated idempotency key")
	}
	if pending[0].IdempotencyKey == pending[1].IdempotencyKey {
		t.Error("idempotency keys must be unique per entry")
	}
}

func TestConfirmMovesEntryOutOfPending(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, _ := store.Enqueue(ctx, reviewRequest(`{}`))
	if err := store.Confirm(ctx, id); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	pending, _ := store.GetPending(ctx)
	if len(pending) != 0 {
		t.Errorf("expected empty pending set, got %d", len(pending))
	}

	// Confirming twice reports the entry as gone.
	if err := store.Confirm(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double confirm, got %v", err)
	}
}

func TestMarkAttemptAccumulates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, _ := store.Enqueue(ctx, reviewRequest(`{}`))

	if n, err := store.MarkAttempt(ctx, id, "HTTP 502"); err != nil || n != 1 {
		t.Fatalf("expected 1 attempt, got %d (err %v)", n, err)
	}
	if n, err := store.MarkAttempt(ctx, id, "HTTP 503"); err != nil || n != 2 {
		t.Fatalf("expected 2 attempts, got %d (err %v)", n, err)
	}

	pending, _ := store.GetPending(ctx)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending entry, got %d", len(pending))
	}
	if pending[0].LastError != "HTTP 503" {
		t.Errorf("expected last error to be recorded, got %q", pending[0].LastError)
	}
	if pending[0].LastAttemptAt.IsZero() {
		t.Error("expected LastAttemptAt to be set")
	}

	// The idempotency key never changes across attempts.
	key := pending[0].IdempotencyKey
	_, _ = store.MarkAttempt(ctx, id, "HTTP 504")
	pending, _ = store.GetPending(ctx)
	if pending[0].IdempotencyKey != key {
		t.Error("idempotency key must be stable across attempts")
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, _ := store.Enqueue(ctx, reviewRequest(`{}`))
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRetireRemovesEntry(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, _ := store.Enqueue(ctx, reviewRequest(`{}`))
	if err := store.Retire(ctx, id, "attempt budget exhausted"); err != nil {
		t.Fatalf("Retire failed: %v", err)
	}

	if n, _ := store.PendingCount(ctx); n != 0 {
		t.Errorf("expected empty queue after retire, got %d", n)
	}
}

func TestCompactRemovesOldDeliveredEntries(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, _ := store.Enqueue(ctx, reviewRequest(`{}`))
	if err := store.Confirm(ctx, id); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	// Retention zero: everything delivered before now is stale.
	time.Sleep(5 * time.Millisecond)
	removed, err := store.Compact(ctx, 0)
	if err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed entry, got %d", removed)
	}

	// A second compaction finds nothing.
	removed, err = store.Compact(ctx, 0)
	if err != nil || removed != 0 {
		t.Errorf("expected clean second compaction, got %d (err %v)", removed, err)
	}
}

func TestCompactKeepsRecentAndPending(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, _ = store.Enqueue(ctx, reviewRequest(`{}`))
	delivered, _ := store.Enqueue(ctx, reviewRequest(`{}`))
	_ = store.Confirm(ctx, delivered)

	removed, err := store.Compact(ctx, DoneRetention)
	if err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("recent delivered entries must survive, removed %d", removed)
	}
	if n, _ := store.PendingCount(ctx); n != 1 {
		t.Errorf("pending entries must survive compaction, got %d", n)
	}
}
