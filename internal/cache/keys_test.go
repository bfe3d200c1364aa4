// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package cache

import "testing"

func TestKeyBuilders(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"popular movies", PopularMoviesKey(2), "popular_movies_2"},
		{"top rated movies", TopRatedMoviesKey(1), "top_rated_movies_1"},
		{"upcoming movies", UpcomingMoviesKey(3), "upcoming_movies_3"},
		{"now playing movies", NowPlayingMoviesKey(1), "now_playing_movies_1"},
		{"movie details", MovieDetailsKey(550), "movie_550"},
		{"movie credits", MovieCreditsKey(550), "movie_credits_550"},
		{"movie videos", MovieVideosKey(550), "movie_videos_550"},
		{"movies by genre", MoviesByGenreKey(16, 2), "movies_genre_16_2"},
		{"top anime", TopAnimeKey(1), "popular_anime_1"},
		{"airing anime", AiringAnimeKey(1), "airing_anime_1"},
		{"upcoming anime", UpcomingAnimeKey(2), "upcoming_anime_2"},
		{"anime by popularity", PopularAnimeKey(1), "bypop_anime_1"},
		{"anime details", AnimeDetailsKey(21), "anime_21"},
		{"anime by genre", AnimeByGenreKey(1, 1), "anime_genre_1_1"},
		{"user favorites", UserFavoritesKey(), "user_favorites"},
		{"user reviews", UserReviewsKey(), "user_reviews"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSearchKeysEscapeQueries(t *testing.T) {
	if got, want := SearchMoviesKey("spirited away", 1), "search_movies_spirited+away_1"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := SearchAnimeKey("攻殻機動隊", 1), "search_anime_%E6%94%BB%E6%AE%BB%E6%A9%9F%E5%8B%95%E9%9A%8A_1"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Escaping keeps user input from forging an unrelated key.
	if SearchMoviesKey("a_1", 0) == SearchMoviesKey("a", 10) {
		t.Error("distinct queries must not collide")
	}
}
