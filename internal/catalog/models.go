// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package catalog

// TMDB response shapes. Field sets follow the TMDB v3 API; fields the UI
// never shows are omitted.

// Movie is a single movie in a TMDB listing or search page.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	GenreIDs     []int   `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
}

// MoviePage is one page of movie results.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is a TMDB genre record.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the full detail record of one movie.
type MovieDetails struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	Genres       []Genre `json:"genres"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Status       string  `json:"status"`
	Tagline      string  `json:"tagline"`
	Homepage     string  `json:"homepage"`
}

// CastMember is one cast credit of a movie.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is one crew credit of a movie.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// Credits holds the cast and crew of one movie.
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is one trailer or clip attached to a movie.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// VideoList holds the videos of one movie.
type VideoList struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// Jikan response shapes, following the Jikan v4 API.

// AnimeImage holds the JPEG variants Jikan publishes for one anime.
type AnimeImage struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// AnimeGenre is a MyAnimeList genre tag.
type AnimeGenre struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
}

// Anime is a single anime record.
type Anime struct {
	MalID    int                   `json:"mal_id"`
	Title    string                `json:"title"`
	TitleEn  string                `json:"title_english"`
	Synopsis string                `json:"synopsis"`
	Images   map[string]AnimeImage `json:"images"`
	Episodes int                   `json:"episodes"`
	Status   string                `json:"status"`
	Score    float64               `json:"score"`
	Rank     int                   `json:"rank"`
	Members  int                   `json:"members"`
	Year     int                   `json:"year"`
	Genres   []AnimeGenre          `json:"genres"`
}

// AnimePagination is Jikan's paging envelope.
type AnimePagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
}

// AnimePage is one page of anime results.
type AnimePage struct {
	Pagination AnimePagination `json:"pagination"`
	Data       []Anime         `json:"data"`
}

// AnimeDetails wraps a single anime record.
type AnimeDetails struct {
	Data Anime `json:"data"`
}
