// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/reelrate/edge/internal/fetch"
)

// pageRequest validates the page query parameter.
type pageRequest struct {
	Page int `validate:"min=1,max=500"`
}

// searchRequest validates full-text search parameters.
type searchRequest struct {
	Query string `validate:"required,min=1,max=200"`
	Page  int    `validate:"min=1,max=500"`
}

// listFunc is a paginated catalog operation.
type listFunc func(ctx context.Context, page int) (fetch.Result, error)

// detailFunc is a catalog operation keyed by resource ID.
type detailFunc func(ctx context.Context, id int) (fetch.Result, error)

// serveList handles the shared shape of paginated list endpoints.
func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, fn listFunc) {
	req := pageRequest{Page: getIntParam(r, "page", 1)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	result, err := fn(r.Context(), req.Page)
	if err != nil {
		respondFetchError(w, err)
		return
	}
	respondResult(w, result)
}

// serveDetail handles the shared shape of ID-keyed endpoints.
func (h *Handler) serveDetail(w http.ResponseWriter, r *http.Request, fn detailFunc) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return
	}

	result, err := fn(r.Context(), id)
	if err != nil {
		respondFetchError(w, err)
		return
	}
	respondResult(w, result)
}

// serveSearch handles the shared shape of search endpoints.
func (h *Handler) serveSearch(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, query string, page int) (fetch.Result, error)) {
	req := searchRequest{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Page:  getIntParam(r, "page", 1),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	result, err := fn(r.Context(), req.Query, req.Page)
	if err != nil {
		respondFetchError(w, err)
		return
	}
	respondResult(w, result)
}

// serveGenre handles genre-filtered list endpoints.
func (h *Handler) serveGenre(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, genreID, page int) (fetch.Result, error)) {
	genreID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "genre id must be a positive integer", nil)
		return
	}

	req := pageRequest{Page: getIntParam(r, "page", 1)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	result, err := fn(r.Context(), genreID, req.Page)
	if err != nil {
		respondFetchError(w, err)
		return
	}
	respondResult(w, result)
}

// Search dispatches combined search requests by media type.
// The type query parameter selects movies (default) or anime.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	switch mediaType := r.URL.Query().Get("type"); mediaType {
	case "", "movie":
		h.serveSearch(w, r, h.catalog.SearchMovies)
	case "anime":
		h.serveSearch(w, r, h.catalog.SearchAnime)
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "type must be one of: movie anime", nil)
	}
}

// Movie endpoints.

func (h *Handler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.catalog.PopularMovies)
}

func (h *Handler) TopRatedMovies(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.catalog.TopRatedMovies)
}

func (h *Handler) UpcomingMovies(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.catalog.UpcomingMovies)
}

func (h *Handler) NowPlayingMovies(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.catalog.NowPlayingMovies)
}

func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	h.serveSearch(w, r, h.catalog.SearchMovies)
}

func (h *Handler) MoviesByGenre(w http.ResponseWriter, r *http.Request) {
	h.serveGenre(w, r, h.catalog.MoviesByGenre)
}

func (h *Handler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	h.serveDetail(w, r, h.catalog.MovieDetails)
}

func (h *Handler) MovieCredits(w http.ResponseWriter, r *http.Request) {
	h.serveDetail(w, r, h.catalog.MovieCredits)
}

func (h *Handler) MovieVideos(w http.ResponseWriter, r *http.Request) {
	h.serveDetail(w, r, h.catalog.MovieVideos)
}

// Anime endpoints.

func (h *Handler) TopAnime(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.catalog.TopAnime)
}

func (h *Handler) AiringAnime(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.catalog.AiringAnime)
}

func (h *Handler) UpcomingAnime(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.catalog.UpcomingAnime)
}

func (h *Handler) PopularAnime(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.catalog.PopularAnime)
}

func (h *Handler) SearchAnime(w http.ResponseWriter, r *http.Request) {
	h.serveSearch(w, r, h.catalog.SearchAnime)
}

func (h *Handler) AnimeByGenre(w http.ResponseWriter, r *http.Request) {
	h.serveGenre(w, r, h.catalog.AnimeByGenre)
}

func (h *Handler) AnimeDetails(w http.ResponseWriter, r *http.Request) {
	h.serveDetail(w, r, h.catalog.AnimeDetails)
}
