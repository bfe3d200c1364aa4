// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package cache

import (
	"fmt"
	"net/url"
)

// Cache key builders.
//
// Every resource type owns a distinct prefix, so keys are deterministic and
// can never collide across types. Search queries are escaped before being
// embedded so that user input cannot forge another resource's key.

// PopularMoviesKey keys one page of the popular movies listing.
func PopularMoviesKey(page int) string {
	return fmt.Sprintf("popular_movies_%d", page)
}

// TopRatedMoviesKey keys one page of the top rated movies listing.
func TopRatedMoviesKey(page int) string {
	return fmt.Sprintf("top_rated_movies_%d", page)
}

// UpcomingMoviesKey keys one page of the upcoming movies listing.
func UpcomingMoviesKey(page int) string {
	return fmt.Sprintf("upcoming_movies_%d", page)
}

// NowPlayingMoviesKey keys one page of the now playing movies listing.
func NowPlayingMoviesKey(page int) string {
	return fmt.Sprintf("now_playing_movies_%d", page)
}

// MovieDetailsKey keys the detail record of a single movie.
func MovieDetailsKey(id int) string {
	return fmt.Sprintf("movie_%d", id)
}

// MovieCreditsKey keys the cast/crew credits of a single movie.
func MovieCreditsKey(id int) string {
	return fmt.Sprintf("movie_credits_%d", id)
}

// MovieVideosKey keys the trailer/video list of a single movie.
func MovieVideosKey(id int) string {
	return fmt.Sprintf("movie_videos_%d", id)
}

// SearchMoviesKey keys one page of movie search results for a query.
func SearchMoviesKey(query string, page int) string {
	return fmt.Sprintf("search_movies_%s_%d", url.QueryEscape(query), page)
}

// MoviesByGenreKey keys one page of the movies-by-genre listing.
func MoviesByGenreKey(genreID, page int) string {
	return fmt.Sprintf("movies_genre_%d_%d", genreID, page)
}

// TopAnimeKey keys one page of the top anime listing.
func TopAnimeKey(page int) string {
	return fmt.Sprintf("popular_anime_%d", page)
}

// AiringAnimeKey keys one page of the currently airing anime listing.
func AiringAnimeKey(page int) string {
	return fmt.Sprintf("airing_anime_%d", page)
}

// UpcomingAnimeKey keys one page of the upcoming anime listing.
func UpcomingAnimeKey(page int) string {
	return fmt.Sprintf("upcoming_anime_%d", page)
}

// PopularAnimeKey keys one page of the by-popularity anime listing.
func PopularAnimeKey(page int) string {
	return fmt.Sprintf("bypop_anime_%d", page)
}

// AnimeDetailsKey keys the detail record of a single anime.
func AnimeDetailsKey(id int) string {
	return fmt.Sprintf("anime_%d", id)
}

// SearchAnimeKey keys one page of anime search results for a query.
func SearchAnimeKey(query string, page int) string {
	return fmt.Sprintf("search_anime_%s_%d", url.QueryEscape(query), page)
}

// AnimeByGenreKey keys one page of the anime-by-genre listing.
func AnimeByGenreKey(genreID, page int) string {
	return fmt.Sprintf("anime_genre_%d_%d", genreID, page)
}

// UserFavoritesKey keys the signed-in user's favorites snapshot.
func UserFavoritesKey() string {
	return "user_favorites"
}

// UserReviewsKey keys the signed-in user's reviews snapshot.
func UserReviewsKey() string {
	return "user_reviews"
}
