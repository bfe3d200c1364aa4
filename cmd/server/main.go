// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package main is the entry point for the ReelRate edge server.
//
// The edge server sits between the ReelRate web app and its upstream
// catalog APIs (TMDB for movies, Jikan for anime). It keeps the app
// usable offline: catalog responses live in a two-tier TTL cache, app
// traffic flows through an offline-aware gateway with versioned response
// caches, writes made while offline queue in a durable outbox for replay,
// and push notifications fan out over WebSockets.
//
// # Startup Order
//
//  1. Configuration: koanf v2 layers defaults, YAML file, REELRATE_* env vars
//  2. Logging: zerolog, JSON or console format
//  3. Storage: one shared BadgerDB for cache, response caches, and outbox
//  4. Domain: cache manager, connectivity monitor, fetcher, catalog service
//  5. Gateway: install and, unless configured otherwise, activate
//  6. Supervisor tree: push hub, monitor probe, replayer, tickers, HTTP server
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor tree drains
// its services, the HTTP server completes in-flight requests within the
// shutdown timeout, and BadgerDB closes last.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgraph-io/badger/v4"

	"github.com/reelrate/edge/internal/api"
	"github.com/reelrate/edge/internal/cache"
	"github.com/reelrate/edge/internal/catalog"
	"github.com/reelrate/edge/internal/config"
	"github.com/reelrate/edge/internal/fetch"
	"github.com/reelrate/edge/internal/gateway"
	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/outbox"
	"github.com/reelrate/edge/internal/push"
	"github.com/reelrate/edge/internal/supervisor"
	"github.com/reelrate/edge/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("origin", cfg.Gateway.Origin).
		Str("cache_dir", cfg.Cache.Dir).
		Msg("Starting ReelRate edge server")

	badgerOpts := badger.DefaultOptions(cfg.Cache.Dir).WithLogger(nil)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.Cache.Dir).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	manager := cache.NewManager(cache.Options{
		Durable:        cache.NewBadgerTier(db),
		DefaultTTL:     cfg.Cache.TTL,
		StaleRetention: cfg.Cache.StaleRetention,
	})

	var probe fetch.ProbeFunc
	if cfg.Online.ProbeURL != "" {
		probe = fetch.HTTPProbe(cfg.Online.ProbeURL)
	}
	monitor := fetch.NewMonitor(fetch.MonitorOptions{
		OfflineThreshold: cfg.Online.OfflineThreshold,
		Probe:            probe,
		ProbeInterval:    cfg.Online.ProbeInterval,
	})

	fetcher := fetch.NewFetcher(manager, monitor)

	tmdb := catalog.NewTMDBClient(catalog.TMDBOptions{
		BaseURL:  cfg.TMDB.BaseURL,
		APIKey:   cfg.TMDB.APIKey,
		Language: cfg.TMDB.Language,
	})
	jikan := catalog.NewJikanClient(catalog.JikanOptions{
		BaseURL:           cfg.Jikan.BaseURL,
		RequestsPerSecond: cfg.Jikan.RequestsPerSecond,
	})
	catalogSvc := catalog.NewService(tmdb, jikan, fetcher)

	gw, err := gateway.New(gateway.Options{
		Origin:      cfg.Gateway.Origin,
		DB:          db,
		SkipWaiting: cfg.Gateway.SkipWaiting,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create gateway")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := gw.Lifecycle().Install(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Gateway installation failed")
	}
	if !cfg.Gateway.SkipWaiting {
		// No prior version to hand off from, activate immediately.
		if err := gw.Lifecycle().Activate(ctx); err != nil {
			logging.Fatal().Err(err).Msg("Gateway activation failed")
		}
	}
	logging.Info().Str("state", string(gw.Lifecycle().State())).Msg("Gateway installed")

	store := outbox.NewStore(db)
	replayer := outbox.NewReplayer(outbox.ReplayerOptions{
		Store:         store,
		Monitor:       monitor,
		SweepInterval: cfg.Outbox.SweepInterval,
	})

	hub := push.NewHub()

	handler := api.NewHandler(api.HandlerConfig{
		Catalog:  catalogSvc,
		Cache:    manager,
		Outbox:   store,
		Replayer: replayer,
		Hub:      hub,
		Gateway:  gw,
		Monitor:  monitor,
	})

	router := api.Setup(api.RouterConfig{
		Handler:     handler,
		Gateway:     gw,
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewTree(
		slog.New(logging.NewSlogHandler()),
		supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout},
	)
	tree.AddStorageService(services.NewCacheCleanupService(manager, cfg.Cache.CleanupInterval))
	tree.AddStorageService(services.NewOutboxCompactService(store, cfg.Outbox.CompactInterval, outbox.DoneRetention))
	tree.AddMessagingService(services.NewRunnerService("push-hub", hub.Run))
	tree.AddMessagingService(services.NewRunnerService("online-monitor", monitor.Run))
	tree.AddMessagingService(services.NewRunnerService("outbox-replayer", replayer.Run))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Msg("Supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree exited with error")
		os.Exit(1)
	}

	logging.Info().Msg("Shutdown complete")
}
