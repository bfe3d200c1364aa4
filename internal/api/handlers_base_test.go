// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/reelrate/edge/internal/cache"
	"github.com/reelrate/edge/internal/catalog"
	"github.com/reelrate/edge/internal/fetch"
	"github.com/reelrate/edge/internal/gateway"
	"github.com/reelrate/edge/internal/outbox"
	"github.com/reelrate/edge/internal/push"
)

// envelope mirrors the response shape for assertions.
type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Source string `json:"source"`
	} `json:"metadata"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// testEnv wires the full stack against in-process upstreams.
type testEnv struct {
	srv      *httptest.Server
	upstream *httptest.Server
	origin   *httptest.Server
	handler  *Handler
	monitor  *fetch.Monitor
	cache    *cache.Manager
	outbox   *outbox.Store
}

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions(t.TempDir()).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close badger: %v", err)
		}
	})
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page":1,"results":[{"id":550,"title":"Fight Club"}]}`))
	}))
	t.Cleanup(upstream.Close)

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/", "/manifest.json", "/offline.html":
			w.Write([]byte("origin:" + r.URL.Path))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(origin.Close)

	db := openTestDB(t)

	manager := cache.NewManager(cache.Options{
		Durable:    cache.NewBadgerTier(db),
		DefaultTTL: time.Minute,
	})
	monitor := fetch.NewMonitor(fetch.MonitorOptions{})
	fetcher := fetch.NewFetcher(manager, monitor)

	tmdb := catalog.NewTMDBClient(catalog.TMDBOptions{BaseURL: upstream.URL, APIKey: "test-key"})
	jikan := catalog.NewJikanClient(catalog.JikanOptions{BaseURL: upstream.URL, RequestsPerSecond: 1000})
	svc := catalog.NewService(tmdb, jikan, fetcher)

	store := outbox.NewStore(db)
	replayer := outbox.NewReplayer(outbox.ReplayerOptions{Store: store, Monitor: monitor})

	hub := push.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	gw, err := gateway.New(gateway.Options{Origin: origin.URL, DB: db, SkipWaiting: true})
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}
	if err := gw.Lifecycle().Install(ctx); err != nil {
		t.Fatalf("gateway install: %v", err)
	}

	handler := NewHandler(HandlerConfig{
		Catalog:  svc,
		Cache:    manager,
		Outbox:   store,
		Replayer: replayer,
		Hub:      hub,
		Gateway:  gw,
		Monitor:  monitor,
	})

	srv := httptest.NewServer(Setup(RouterConfig{Handler: handler, Gateway: gw}))
	t.Cleanup(srv.Close)

	return &testEnv{
		srv:      srv,
		upstream: upstream,
		origin:   origin,
		handler:  handler,
		monitor:  monitor,
		cache:    manager,
		outbox:   store,
	}
}

// get issues a GET and decodes the envelope.
func (e *testEnv) get(t *testing.T, path string) (int, envelope) {
	t.Helper()
	resp, err := http.Get(e.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return resp.StatusCode, env
}
