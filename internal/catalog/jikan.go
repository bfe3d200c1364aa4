// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// DefaultJikanBaseURL is the public Jikan v4 API root.
const DefaultJikanBaseURL = "https://api.jikan.moe/v4"

// jikanRateLimit matches Jikan's published limit of 3 requests per
// second. The client throttles itself instead of reacting to 429s.
const jikanRateLimit = 3

// JikanClient is a typed client for the Jikan v4 API (MyAnimeList data).
//
// Thread Safety: safe for concurrent use. The shared limiter serializes
// bursts across goroutines.
type JikanClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// JikanOptions configures a JikanClient.
type JikanOptions struct {
	// BaseURL overrides the API root, mainly for tests.
	BaseURL string

	// Timeout bounds each HTTP request. Zero selects 30 seconds.
	Timeout time.Duration

	// RequestsPerSecond overrides the self-imposed rate limit. Zero
	// selects Jikan's published limit.
	RequestsPerSecond float64
}

// NewJikanClient creates a Jikan client.
func NewJikanClient(opts JikanOptions) *JikanClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultJikanBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = jikanRateLimit
	}
	return &JikanClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), jikanRateLimit),
	}
}

// TopAnime returns one page of the top ranked anime listing.
func (c *JikanClient) TopAnime(ctx context.Context, page int) (*AnimePage, error) {
	return c.animePage(ctx, "/top/anime", animePageParams(page))
}

// AiringAnime returns one page of currently airing anime.
func (c *JikanClient) AiringAnime(ctx context.Context, page int) (*AnimePage, error) {
	params := animePageParams(page)
	params.Set("filter", "airing")
	return c.animePage(ctx, "/top/anime", params)
}

// UpcomingAnime returns one page of not-yet-aired anime.
func (c *JikanClient) UpcomingAnime(ctx context.Context, page int) (*AnimePage, error) {
	params := animePageParams(page)
	params.Set("filter", "upcoming")
	return c.animePage(ctx, "/top/anime", params)
}

// PopularAnime returns one page of anime ordered by popularity.
func (c *JikanClient) PopularAnime(ctx context.Context, page int) (*AnimePage, error) {
	params := animePageParams(page)
	params.Set("filter", "bypopularity")
	return c.animePage(ctx, "/top/anime", params)
}

// SearchAnime returns one page of search results for query.
func (c *JikanClient) SearchAnime(ctx context.Context, query string, page int) (*AnimePage, error) {
	params := animePageParams(page)
	params.Set("q", query)
	params.Set("sfw", "true")
	return c.animePage(ctx, "/anime", params)
}

// AnimeByGenre returns one page of anime tagged with the given MAL genre.
func (c *JikanClient) AnimeByGenre(ctx context.Context, genreID, page int) (*AnimePage, error) {
	params := animePageParams(page)
	params.Set("genres", strconv.Itoa(genreID))
	params.Set("order_by", "popularity")
	return c.animePage(ctx, "/anime", params)
}

// AnimeDetails returns the full record of one anime by MAL id.
func (c *JikanClient) AnimeDetails(ctx context.Context, id int) (*AnimeDetails, error) {
	var details AnimeDetails
	if err := c.get(ctx, fmt.Sprintf("/anime/%d", id), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *JikanClient) animePage(ctx context.Context, path string, params url.Values) (*AnimePage, error) {
	var page AnimePage
	if err := c.get(ctx, path, params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// get waits for a limiter token, performs the GET and decodes the JSON
// response into result.
func (c *JikanClient) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("jikan %s: %w", path, err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("jikan %s: create request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("jikan %s: request failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readErrorBody(resp.Body)
		return fmt.Errorf("jikan %s: HTTP %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("jikan %s: decode response: %w", path, err)
	}
	return nil
}

func animePageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return params
}
