// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/reelrate/edge/internal/metrics"
)

// respPrefix namespaces all response caches inside the shared BadgerDB.
const respPrefix = "respcache:"

// Versioned cache names. Bumping a version makes the next activation
// purge the previous generation.
const (
	StaticCacheName  = "reelrate-static-v1"
	DynamicCacheName = "reelrate-dynamic-v1"
)

// StoredResponse is a cached HTTP response.
type StoredResponse struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"stored_at"`
}

// ResponseCache is one named, versioned store of HTTP responses in
// BadgerDB. Keys are "<method> <url>", scoped under the cache's name.
//
// Thread Safety: safe for concurrent use; Badger transactions provide
// isolation.
type ResponseCache struct {
	db   *badger.DB
	name string
}

// NewResponseCache opens the named response cache over a shared DB
// handle.
func NewResponseCache(db *badger.DB, name string) *ResponseCache {
	return &ResponseCache{db: db, name: name}
}

// Name returns the cache's versioned name.
func (c *ResponseCache) Name() string { return c.name }

func (c *ResponseCache) key(method, url string) []byte {
	return []byte(respPrefix + c.name + ":" + method + " " + url)
}

// Get returns the cached response for the method and URL.
func (c *ResponseCache) Get(_ context.Context, method, url string) (*StoredResponse, bool, error) {
	var stored StoredResponse
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(c.key(method, url))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("response cache %s: get: %w", c.name, err)
	}
	return &stored, true, nil
}

// Put stores a response under the method and URL.
func (c *ResponseCache) Put(_ context.Context, method, url string, resp *StoredResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("response cache %s: marshal: %w", c.name, err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(c.key(method, url), data)
	})
	if err != nil {
		return fmt.Errorf("response cache %s: put: %w", c.name, err)
	}
	metrics.GatewayCacheWrites.WithLabelValues(c.name).Inc()
	return nil
}

// Delete removes one cached response.
func (c *ResponseCache) Delete(_ context.Context, method, url string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(c.key(method, url))
	})
	if err != nil {
		return fmt.Errorf("response cache %s: delete: %w", c.name, err)
	}
	return nil
}

// Len counts the cached responses in this cache.
func (c *ResponseCache) Len(_ context.Context) (int, error) {
	count := 0
	prefix := []byte(respPrefix + c.name + ":")
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("response cache %s: len: %w", c.name, err)
	}
	return count, nil
}

// Purge drops every response in this cache.
func (c *ResponseCache) Purge(_ context.Context) error {
	prefix := []byte(respPrefix + c.name + ":")
	if err := c.db.DropPrefix(prefix); err != nil {
		return fmt.Errorf("response cache %s: purge: %w", c.name, err)
	}
	return nil
}

// ListCacheNames returns the distinct cache names currently present in
// the DB, in unspecified order. Used by activation to find obsolete
// generations.
func ListCacheNames(_ context.Context, db *badger.DB) ([]string, error) {
	seen := make(map[string]struct{})
	prefix := []byte(respPrefix)
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			rest := key[len(prefix):]
			for i := 0; i < len(rest); i++ {
				if rest[i] == ':' {
					seen[string(rest[:i])] = struct{}{}
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list response caches: %w", err)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names, nil
}
