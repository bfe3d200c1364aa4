// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// keyPrefix namespaces all cache entries inside the shared BadgerDB so they
// never collide with the response caches or the outbox.
const keyPrefix = "reelrate_cache:"

// BadgerTier is the durable tier backed by BadgerDB. Entries survive
// restarts and, unlike the memory tier, expired entries stay readable until
// the periodic sweep drops them, which is what makes stale-while-fallback
// possible after a process restart.
type BadgerTier struct {
	db *badger.DB
}

// NewBadgerTier creates a durable tier on top of an open BadgerDB handle.
// The handle is shared with other components; this tier only touches keys
// under its own prefix.
func NewBadgerTier(db *badger.DB) *BadgerTier {
	return &BadgerTier{db: db}
}

// Get returns the entry for key, expired or not.
func (t *BadgerTier) Get(_ context.Context, key string) (Entry, bool, error) {
	var entry Entry
	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get %q: %w", key, err)
	}
	return entry, true, nil
}

// Set stores the entry under key.
func (t *BadgerTier) Set(_ context.Context, key string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	err = t.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), data)
	})
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes the entry for key.
func (t *BadgerTier) Delete(_ context.Context, key string) error {
	err := t.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Clear removes every entry under the cache prefix. Other keyspaces in the
// shared database are untouched.
func (t *BadgerTier) Clear(_ context.Context) error {
	keys, err := t.collectKeys(func(Entry) bool { return true })
	if err != nil {
		return err
	}
	return t.deleteKeys(keys)
}

// Sweep removes all entries for which drop returns true.
func (t *BadgerTier) Sweep(_ context.Context, drop func(Entry) bool) (int, error) {
	keys, err := t.collectKeys(drop)
	if err != nil {
		return 0, err
	}
	if err := t.deleteKeys(keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Len reports the current number of entries under the cache prefix.
func (t *BadgerTier) Len(_ context.Context) (int, error) {
	count := 0
	err := t.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

// collectKeys scans the cache prefix and returns the raw keys of entries
// matching the predicate.
func (t *BadgerTier) collectKeys(match func(Entry) bool) ([][]byte, error) {
	var keys [][]byte
	err := t.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var entry Entry
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				// Unreadable entries are dropped; keeping them would
				// poison every future scan.
				keys = append(keys, item.KeyCopy(nil))
				continue
			}
			if match(entry) {
				keys = append(keys, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan entries: %w", err)
	}
	return keys, nil
}

// deleteKeys removes the given raw keys in batched transactions.
func (t *BadgerTier) deleteKeys(keys [][]byte) error {
	wb := t.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("batch delete: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush deletes: %w", err)
	}
	return nil
}
