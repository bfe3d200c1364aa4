// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package catalog

import (
	"context"
	"time"

	"github.com/reelrate/edge/internal/cache"
	"github.com/reelrate/edge/internal/fetch"
)

// SearchTTL is the freshness window for search result pages. Searches go
// stale faster than curated listings, so they get a shorter TTL.
const SearchTTL = 10 * time.Minute

// Upstream labels used for circuit breakers and metrics.
const (
	upstreamTMDB  = "tmdb"
	upstreamJikan = "jikan"
)

// Service serves catalog reads through the cache-then-network strategy.
//
// Every method returns the raw JSON payload ready to embed in an API
// response, together with its provenance (cache, network or stale). All
// cache keys come from the internal/cache key builders so the HTTP layer
// and the cleanup service agree on the namespace.
type Service struct {
	tmdb    *TMDBClient
	jikan   *JikanClient
	fetcher *fetch.Fetcher
}

// NewService creates a catalog Service.
func NewService(tmdb *TMDBClient, jikan *JikanClient, fetcher *fetch.Fetcher) *Service {
	return &Service{tmdb: tmdb, jikan: jikan, fetcher: fetcher}
}

// PopularMovies returns one page of popular movies.
func (s *Service) PopularMovies(ctx context.Context, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.PopularMoviesKey(page), cache.DefaultTTL, upstreamTMDB,
		func(ctx context.Context) (interface{}, error) {
			return s.tmdb.PopularMovies(ctx, page)
		})
}

// TopRatedMovies returns one page of top rated movies.
func (s *Service) TopRatedMovies(ctx context.Context, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.TopRatedMoviesKey(page), cache.DefaultTTL, upstreamTMDB,
		func(ctx context.Context) (interface{}, error) {
			return s.tmdb.TopRatedMovies(ctx, page)
		})
}

// UpcomingMovies returns one page of upcoming movies.
func (s *Service) UpcomingMovies(ctx context.Context, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.UpcomingMoviesKey(page), cache.DefaultTTL, upstreamTMDB,
		func(ctx context.Context) (interface{}, error) {
			return s.tmdb.UpcomingMovies(ctx, page)
		})
}

// NowPlayingMovies returns one page of movies currently in theaters.
func (s *Service) NowPlayingMovies(ctx context.Context, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.NowPlayingMoviesKey(page), cache.DefaultTTL, upstreamTMDB,
		func(ctx context.Context) (interface{}, error) {
			return s.tmdb.NowPlayingMovies(ctx, page)
		})
}

// SearchMovies returns one page of movie search results.
func (s *Service) SearchMovies(ctx context.Context, query string, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.SearchMoviesKey(query, page), SearchTTL, upstreamTMDB,
		func(ctx context.Context) (interface{}, error) {
			return s.tmdb.SearchMovies(ctx, query, page)
		})
}

// MoviesByGenre returns one page of movies for a genre.
func (s *Service) MoviesByGenre(ctx context.Context, genreID, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.MoviesByGenreKey(genreID, page), cache.DefaultTTL, upstreamTMDB,
		func(ctx context.Context) (interface{}, error) {
			return s.tmdb.MoviesByGenre(ctx, genreID, page)
		})
}

// MovieDetails returns the detail record of one movie.
func (s *Service) MovieDetails(ctx context.Context, id int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.MovieDetailsKey(id), cache.DefaultTTL, upstreamTMDB,
		func(ctx context.Context) (interface{}, error) {
			return s.tmdb.MovieDetails(ctx, id)
		})
}

// MovieCredits returns the cast and crew of one movie.
func (s *Service) MovieCredits(ctx context.Context, id int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.MovieCreditsKey(id), cache.DefaultTTL, upstreamTMDB,
		func(ctx context.Context) (interface{}, error) {
			return s.tmdb.MovieCredits(ctx, id)
		})
}

// MovieVideos returns the trailers and clips of one movie.
func (s *Service) MovieVideos(ctx context.Context, id int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.MovieVideosKey(id), cache.DefaultTTL, upstreamTMDB,
		func(ctx context.Context) (interface{}, error) {
			return s.tmdb.MovieVideos(ctx, id)
		})
}

// TopAnime returns one page of the top anime listing.
func (s *Service) TopAnime(ctx context.Context, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.TopAnimeKey(page), cache.DefaultTTL, upstreamJikan,
		func(ctx context.Context) (interface{}, error) {
			return s.jikan.TopAnime(ctx, page)
		})
}

// AiringAnime returns one page of currently airing anime.
func (s *Service) AiringAnime(ctx context.Context, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.AiringAnimeKey(page), cache.DefaultTTL, upstreamJikan,
		func(ctx context.Context) (interface{}, error) {
			return s.jikan.AiringAnime(ctx, page)
		})
}

// UpcomingAnime returns one page of upcoming anime.
func (s *Service) UpcomingAnime(ctx context.Context, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.UpcomingAnimeKey(page), cache.DefaultTTL, upstreamJikan,
		func(ctx context.Context) (interface{}, error) {
			return s.jikan.UpcomingAnime(ctx, page)
		})
}

// PopularAnime returns one page of anime ordered by popularity.
func (s *Service) PopularAnime(ctx context.Context, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.PopularAnimeKey(page), cache.DefaultTTL, upstreamJikan,
		func(ctx context.Context) (interface{}, error) {
			return s.jikan.PopularAnime(ctx, page)
		})
}

// SearchAnime returns one page of anime search results.
func (s *Service) SearchAnime(ctx context.Context, query string, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.SearchAnimeKey(query, page), SearchTTL, upstreamJikan,
		func(ctx context.Context) (interface{}, error) {
			return s.jikan.SearchAnime(ctx, query, page)
		})
}

// AnimeByGenre returns one page of anime for a MAL genre.
func (s *Service) AnimeByGenre(ctx context.Context, genreID, page int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.AnimeByGenreKey(genreID, page), cache.DefaultTTL, upstreamJikan,
		func(ctx context.Context) (interface{}, error) {
			return s.jikan.AnimeByGenre(ctx, genreID, page)
		})
}

// AnimeDetails returns the detail record of one anime.
func (s *Service) AnimeDetails(ctx context.Context, id int) (fetch.Result, error) {
	return s.fetcher.Do(ctx, cache.AnimeDetailsKey(id), cache.DefaultTTL, upstreamJikan,
		func(ctx context.Context) (interface{}, error) {
			return s.jikan.AnimeDetails(ctx, id)
		})
}
