// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// DefaultTMDBBaseURL is the production TMDB v3 API root.
const DefaultTMDBBaseURL = "https://api.themoviedb.org/3"

// DefaultTMDBImageBaseURL is the TMDB image CDN root.
const DefaultTMDBImageBaseURL = "https://image.tmdb.org/t/p"

// maxErrorBodySize caps how much of an error response body is read back
// for diagnostics.
const maxErrorBodySize = 64 * 1024

// TMDBClient is a typed client for the TMDB v3 API.
//
// Rate limiting: HTTP 429 responses are retried with exponential backoff
// (1s, 2s, 4s, 8s, 16s), honoring a Retry-After header when present.
//
// Thread Safety: safe for concurrent use.
type TMDBClient struct {
	baseURL        string
	apiKey         string
	language       string
	client         *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
}

// TMDBOptions configures a TMDBClient.
type TMDBOptions struct {
	// BaseURL overrides the API root, mainly for tests.
	BaseURL string

	// APIKey is the TMDB v3 API key, sent as the api_key query parameter.
	APIKey string

	// Language is the preferred result language, e.g. "th-TH". Empty
	// leaves TMDB's default.
	Language string

	// Timeout bounds each HTTP request. Zero selects 30 seconds.
	Timeout time.Duration
}

// NewTMDBClient creates a TMDB client.
func NewTMDBClient(opts TMDBOptions) *TMDBClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultTMDBBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TMDBClient{
		baseURL:        baseURL,
		apiKey:         opts.APIKey,
		language:       opts.Language,
		client:         &http.Client{Timeout: timeout},
		maxRetries:     5,
		retryBaseDelay: time.Second,
	}
}

// PopularMovies returns one page of the popular movies listing.
func (c *TMDBClient) PopularMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.moviePage(ctx, "/movie/popular", pageParams(page))
}

// TopRatedMovies returns one page of the top rated movies listing.
func (c *TMDBClient) TopRatedMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.moviePage(ctx, "/movie/top_rated", pageParams(page))
}

// UpcomingMovies returns one page of the upcoming movies listing.
func (c *TMDBClient) UpcomingMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.moviePage(ctx, "/movie/upcoming", pageParams(page))
}

// NowPlayingMovies returns one page of the now playing listing.
func (c *TMDBClient) NowPlayingMovies(ctx context.Context, page int) (*MoviePage, error) {
	return c.moviePage(ctx, "/movie/now_playing", pageParams(page))
}

// SearchMovies returns one page of search results for query.
func (c *TMDBClient) SearchMovies(ctx context.Context, query string, page int) (*MoviePage, error) {
	params := pageParams(page)
	params.Set("query", query)
	params.Set("include_adult", "false")
	return c.moviePage(ctx, "/search/movie", params)
}

// MoviesByGenre returns one page of movies tagged with the given genre.
func (c *TMDBClient) MoviesByGenre(ctx context.Context, genreID, page int) (*MoviePage, error) {
	params := pageParams(page)
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("sort_by", "popularity.desc")
	return c.moviePage(ctx, "/discover/movie", params)
}

// MovieDetails returns the full detail record of one movie.
func (c *TMDBClient) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	var details MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// MovieCredits returns the cast and crew of one movie.
func (c *TMDBClient) MovieCredits(ctx context.Context, id int) (*Credits, error) {
	var credits Credits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// MovieVideos returns the trailers and clips of one movie.
func (c *TMDBClient) MovieVideos(ctx context.Context, id int) (*VideoList, error) {
	var videos VideoList
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", id), nil, &videos); err != nil {
		return nil, err
	}
	return &videos, nil
}

func (c *TMDBClient) moviePage(ctx context.Context, path string, params url.Values) (*MoviePage, error) {
	var page MoviePage
	if err := c.get(ctx, path, params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// get performs a GET against the TMDB API and decodes the JSON response
// into result. HTTP 429 responses are retried with exponential backoff.
func (c *TMDBClient) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	reqURL := c.baseURL + path + "?" + params.Encode()

	resp, err := c.doWithRateLimit(ctx, reqURL)
	if err != nil {
		return fmt.Errorf("tmdb %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readErrorBody(resp.Body)
		return fmt.Errorf("tmdb %s: HTTP %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("tmdb %s: decode response: %w", path, err)
	}
	return nil
}

// doWithRateLimit performs the request, retrying HTTP 429 with
// exponential backoff. The context cancels backoff waits.
func (c *TMDBClient) doWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			return nil, fmt.Errorf("rate limit exceeded after %d retries", c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil {
				delay = time.Duration(seconds) * time.Second
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// ImageURL builds the CDN URL for a TMDB image path at the given size,
// e.g. ImageURL("w500", "/abc.jpg"). An empty path returns "".
func ImageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return DefaultTMDBImageBaseURL + "/" + size + path
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return params
}

// readErrorBody reads at most maxErrorBodySize bytes of an error response
// for diagnostics.
func readErrorBody(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}
