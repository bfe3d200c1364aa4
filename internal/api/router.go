// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelrate/edge/internal/gateway"
	"github.com/reelrate/edge/internal/middleware"
)

// RouterConfig configures Setup.
type RouterConfig struct {
	Handler *Handler
	Gateway *gateway.Gateway

	// CORSOrigins lists allowed origins. Empty means allow all.
	CORSOrigins []string

	// RateLimit is requests per minute per IP for API endpoints.
	// Zero disables rate limiting.
	RateLimit int
}

// Setup builds the HTTP routing tree.
//
// Unmatched requests fall through to the gateway, which applies its
// per-request caching policy. The WebSocket endpoint stays outside the
// metrics and compression middleware because the upgrade needs direct
// access to the underlying connection.
func Setup(cfg RouterConfig) http.Handler {
	h := cfg.Handler

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Served-From"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/ws", h.WebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Get("/search", h.Search)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/popular", h.PopularMovies)
			r.Get("/top-rated", h.TopRatedMovies)
			r.Get("/upcoming", h.UpcomingMovies)
			r.Get("/now-playing", h.NowPlayingMovies)
			r.Get("/search", h.SearchMovies)
			r.Get("/genre/{id}", h.MoviesByGenre)
			r.Get("/{id}", h.MovieDetails)
			r.Get("/{id}/credits", h.MovieCredits)
			r.Get("/{id}/videos", h.MovieVideos)
		})

		r.Route("/anime", func(r chi.Router) {
			r.Get("/top", h.TopAnime)
			r.Get("/airing", h.AiringAnime)
			r.Get("/upcoming", h.UpcomingAnime)
			r.Get("/popular", h.PopularAnime)
			r.Get("/search", h.SearchAnime)
			r.Get("/genre/{id}", h.AnimeByGenre)
			r.Get("/{id}", h.AnimeDetails)
		})

		r.Route("/cache", func(r chi.Router) {
			r.Get("/", h.CacheStats)
			r.Delete("/", h.CacheClear)
		})

		r.Route("/outbox", func(r chi.Router) {
			r.Post("/", h.OutboxEnqueue)
			r.Get("/", h.OutboxPending)
			r.Delete("/{id}", h.OutboxDelete)
		})

		r.Post("/push/send", h.PushSend)
		r.Post("/gateway/activate", h.GatewayActivate)
	})

	// Everything else is app traffic for the offline-aware gateway.
	r.NotFound(cfg.Gateway.ServeHTTP)

	return r
}
