// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package outbox

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/metrics"
)

const (
	prefixPending = "outbox:pending:"
	prefixDone    = "outbox:done:"
)

// DoneRetention is how long delivered entries are kept before
// compaction removes them.
const DoneRetention = 24 * time.Hour

var (
	// ErrNotFound is returned when the entry id has no pending entry.
	ErrNotFound = errors.New("outbox entry not found")
)

// Request is an outbound write to queue.
type Request struct {
	// Method is the HTTP method, usually POST or DELETE.
	Method string `json:"method" validate:"required,oneof=POST PUT PATCH DELETE"`

	// URL is the absolute target URL.
	URL string `json:"url" validate:"required,url"`

	// Body is the JSON request body, if any.
	Body json.RawMessage `json:"body,omitempty"`
}

// Entry is one queued write with its delivery bookkeeping.
type Entry struct {
	ID             string          `json:"id"`
	Method         string          `json:"method"`
	URL            string          `json:"url"`
	Body           json.RawMessage `json:"body,omitempty"`
	IdempotencyKey string          `json:"idempotency_key"`
	CreatedAt      time.Time       `json:"created_at"`
	Attempts       int             `json:"attempts"`
	LastAttemptAt  time.Time       `json:"last_attempt_at,omitempty"`
	LastError      string          `json:"last_error,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
}

// Store is the durable outbox queue over a shared BadgerDB handle.
//
// Thread Safety: safe for concurrent use.
type Store struct {
	db *badger.DB
}

// NewStore opens the outbox over the shared DB.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Enqueue stores the request durably and returns the new entry id. The
// entry gets a fresh idempotency key for its whole delivery lifetime.
func (s *Store) Enqueue(ctx context.Context, req Request) (string, error) {
	entry := &Entry{
		ID:             uuid.New().String(),
		Method:         req.Method,
		URL:            req.URL,
		Body:           req.Body,
		IdempotencyKey: uuid.New().String(),
		CreatedAt:      time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("outbox: marshal entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixPending+entry.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("outbox: enqueue: %w", err)
	}

	metrics.OutboxEnqueued.Inc()
	s.updatePendingGauge(ctx)
	logging.Ctx(ctx).Info().Str("entry_id", entry.ID).Str("method", req.Method).Str("url", req.URL).Msg("queued outbound write")
	return entry.ID, nil
}

// GetPending returns all undelivered entries, oldest first.
func (s *Store) GetPending(_ context.Context) ([]*Entry, error) {
	var entries []*Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixPending)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var entry Entry
				if err := json.Unmarshal(val, &entry); err != nil {
					return err
				}
				entries = append(entries, &entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("outbox: get pending: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// Confirm marks an entry delivered, moving it out of the pending set.
func (s *Store) Confirm(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		pendingKey := []byte(prefixPending + id)
		item, err := txn.Get(pendingKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var entry Entry
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		}); err != nil {
			return err
		}
		now := time.Now().UTC()
		entry.DeliveredAt = &now

		data, err := json.Marshal(&entry)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(prefixDone+id), data); err != nil {
			return err
		}
		return txn.Delete(pendingKey)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("outbox: confirm %s: %w", id, err)
	}

	s.updatePendingGauge(ctx)
	return nil
}

// MarkAttempt records a failed delivery attempt on a pending entry and
// returns the updated attempt count.
func (s *Store) MarkAttempt(_ context.Context, id, lastError string) (int, error) {
	attempts := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(prefixPending + id)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var entry Entry
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		}); err != nil {
			return err
		}
		entry.Attempts++
		entry.LastAttemptAt = time.Now().UTC()
		entry.LastError = lastError
		attempts = entry.Attempts

		data, err := json.Marshal(&entry)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("outbox: mark attempt %s: %w", id, err)
	}
	return attempts, nil
}

// Retire removes a pending entry that exhausted its attempt budget.
func (s *Store) Retire(ctx context.Context, id, reason string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefixPending + id))
	})
	if err != nil {
		return fmt.Errorf("outbox: retire %s: %w", id, err)
	}
	metrics.OutboxReplays.WithLabelValues("retired").Inc()
	s.updatePendingGauge(ctx)
	logging.Warn().Str("entry_id", id).Str("reason", reason).Msg("retired undeliverable outbox entry")
	return nil
}

// Delete removes a pending entry on user request, e.g. a withdrawn
// review.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(prefixPending + id)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("outbox: delete %s: %w", id, err)
	}
	s.updatePendingGauge(ctx)
	return nil
}

// PendingCount returns the number of undelivered entries.
func (s *Store) PendingCount(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixPending)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("outbox: pending count: %w", err)
	}
	return count, nil
}

// Compact removes delivered entries older than the retention window.
func (s *Store) Compact(_ context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-retention)
	var stale [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixDone)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var entry Entry
				if err := json.Unmarshal(val, &entry); err != nil {
					return err
				}
				if entry.DeliveredAt != nil && entry.DeliveredAt.Before(cutoff) {
					stale = append(stale, item.KeyCopy(nil))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("outbox: compact scan: %w", err)
	}

	if len(stale) == 0 {
		return 0, nil
	}
	batch := s.db.NewWriteBatch()
	defer batch.Cancel()
	for _, key := range stale {
		if err := batch.Delete(key); err != nil {
			return 0, fmt.Errorf("outbox: compact delete: %w", err)
		}
	}
	if err := batch.Flush(); err != nil {
		return 0, fmt.Errorf("outbox: compact flush: %w", err)
	}
	return len(stale), nil
}

func (s *Store) updatePendingGauge(ctx context.Context) {
	if n, err := s.PendingCount(ctx); err == nil {
		metrics.OutboxPending.Set(float64(n))
	}
}
