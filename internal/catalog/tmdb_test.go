// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newTMDBTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *TMDBClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewTMDBClient(TMDBOptions{BaseURL: srv.URL, APIKey: "test-key"})
	client.retryBaseDelay = time.Millisecond
	return srv, client
}

func TestTMDBPopularMovies(t *testing.T) {
	_, client := newTMDBTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/popular" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("expected api_key test-key, got %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page 2, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(MoviePage{
			Page:    2,
			Results: []Movie{{ID: 550, Title: "Fight Club", VoteAverage: 8.4}},
		})
	})

	page, err := client.PopularMovies(context.Background(), 2)
	if err != nil {
		t.Fatalf("PopularMovies failed: %v", err)
	}
	if page.Page != 2 || len(page.Results) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Results[0].Title != "Fight Club" {
		t.Errorf("unexpected title %q", page.Results[0].Title)
	}
}

func TestTMDBSearchMoviesSendsQuery(t *testing.T) {
	_, client := newTMDBTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "spirited away" {
			t.Errorf("expected query to round-trip, got %q", got)
		}
		if got := r.URL.Query().Get("include_adult"); got != "false" {
			t.Errorf("expected include_adult=false, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(MoviePage{Page: 1})
	})

	if _, err := client.SearchMovies(context.Background(), "spirited away", 1); err != nil {
		t.Fatalf("SearchMovies failed: %v", err)
	}
}

func TestTMDBMovieDetails(t *testing.T) {
	_, client := newTMDBTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/550" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(MovieDetails{
			ID:      550,
			Title:   "Fight Club",
			Runtime: 139,
			Genres:  []Genre{{ID: 18, Name: "Drama"}},
		})
	})

	details, err := client.MovieDetails(context.Background(), 550)
	if err != nil {
		t.Fatalf("MovieDetails failed: %v", err)
	}
	if details.Runtime != 139 || len(details.Genres) != 1 {
		t.Errorf("unexpected details: %+v", details)
	}
}

func TestTMDBRetriesOn429(t *testing.T) {
	var calls atomic.Int32
	_, client := newTMDBTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(MoviePage{Page: 1})
	})

	if _, err := client.PopularMovies(context.Background(), 1); err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestTMDBGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	_, client := newTMDBTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.PopularMovies(context.Background(), 1)
	if err == nil {
		t.Fatal("expected rate limit error")
	}
	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("unexpected error: %v", err)
	}
	if n := calls.Load(); n != int32(client.maxRetries)+1 {
		t.Errorf("expected %d attempts, got %d", client.maxRetries+1, n)
	}
}

func TestTMDBNonOKStatusIsError(t *testing.T) {
	_, client := newTMDBTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
	})

	_, err := client.PopularMovies(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error on HTTP 401")
	}
	if !strings.Contains(err.Error(), "HTTP 401") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestImageURL(t *testing.T) {
	if got, want := ImageURL("w500", "/abc.jpg"), "https://image.tmdb.org/t/p/w500/abc.jpg"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := ImageURL("w500", ""); got != "" {
		t.Errorf("expected empty URL for empty path, got %q", got)
	}
}
