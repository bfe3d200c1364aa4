// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/reelrate/edge/internal/logging"
	"github.com/reelrate/edge/internal/metrics"
)

// maxCachedBodySize caps the response bodies stored in the caches.
// Larger responses are served but never cached.
const maxCachedBodySize = 5 * 1024 * 1024

// offlineBody is the JSON error served when an API request fails with no
// cached fallback.
const offlineBody = `{"error":"offline","message":"no network and no cached copy available"}`

// Gateway is the offline-first HTTP edge. See the package documentation
// for the policy rules.
type Gateway struct {
	origin    *url.URL
	client    *http.Client
	db        *badger.DB
	static    *ResponseCache
	dynamic   *ResponseCache
	lifecycle *Lifecycle
}

// Options configures a Gateway.
type Options struct {
	// Origin is the base URL of the web app the gateway fronts.
	Origin string

	// DB is the shared BadgerDB holding the response caches.
	DB *badger.DB

	// Client overrides the HTTP client used for origin and API fetches.
	Client *http.Client

	// SkipWaiting activates the gateway immediately after installation.
	SkipWaiting bool
}

// New creates a Gateway and its lifecycle in the installing state. Call
// Lifecycle().Install to precache the app shell and begin serving.
func New(opts Options) (*Gateway, error) {
	origin, err := url.Parse(opts.Origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin %q: %w", opts.Origin, err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("origin %q must be an absolute URL", opts.Origin)
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	g := &Gateway{
		origin:  origin,
		client:  client,
		db:      opts.DB,
		static:  NewResponseCache(opts.DB, StaticCacheName),
		dynamic: NewResponseCache(opts.DB, DynamicCacheName),
	}
	g.lifecycle = NewLifecycle(LifecycleOptions{
		DB:          opts.DB,
		Static:      g.static,
		Dynamic:     g.dynamic,
		SkipWaiting: opts.SkipWaiting,
	})
	g.lifecycle.precache = g.precachePath
	return g, nil
}

// Lifecycle returns the gateway's lifecycle state machine.
func (g *Gateway) Lifecycle() *Lifecycle { return g.lifecycle }

// StaticCache returns the versioned app shell cache.
func (g *Gateway) StaticCache() *ResponseCache { return g.static }

// DynamicCache returns the versioned API response cache.
func (g *Gateway) DynamicCache() *ResponseCache { return g.dynamic }

// DB returns the shared store backing the response caches.
func (g *Gateway) DB() *badger.DB { return g.db }

// ServeHTTP applies the policy for the request. Until the lifecycle is
// active, everything passes through uncached.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	policy := Classify(r)

	// Denied requests never reach any host, active or not.
	if policy == PolicyDenied {
		metrics.GatewayRequests.WithLabelValues(string(PolicyDenied), "denied").Inc()
		logging.Ctx(r.Context()).Warn().Str("url", r.URL.String()).Msg("rejected absolute-form request to unknown origin")
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	if g.lifecycle.State() != StateActive {
		g.passthrough(w, r, policy)
		return
	}

	switch policy {
	case PolicyAPI:
		g.apiCacheAside(w, r)
	case PolicyNavigation:
		g.navigation(w, r)
	case PolicyAsset:
		g.asset(w, r)
	default:
		g.passthrough(w, r, policy)
	}
}

// apiCacheAside serves API data: origin first, storing 200s in the
// dynamic cache, cached copy when the origin is unreachable.
func (g *Gateway) apiCacheAside(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	target := g.target(r)

	resp, err := g.fetch(ctx, target, r.Header)
	if err == nil {
		defer resp.Body.Close()
		metrics.GatewayRequests.WithLabelValues(string(PolicyAPI), "network").Inc()
		g.relayAndCache(ctx, w, resp, target)
		return
	}

	if stored, ok, cacheErr := g.dynamic.Get(ctx, http.MethodGet, target); cacheErr == nil && ok {
		logging.Ctx(ctx).Debug().Str("url", target).Msg("origin unreachable, serving cached response")
		metrics.GatewayRequests.WithLabelValues(string(PolicyAPI), "cache_fallback").Inc()
		w.Header().Set("X-Served-From", "cache")
		serveStored(w, stored)
		return
	}

	metrics.GatewayRequests.WithLabelValues(string(PolicyAPI), "offline").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = io.WriteString(w, offlineBody)
}

// navigation serves page loads network-first and never caches the
// result, so stale HTML is never replayed. Offline falls back to the
// precached offline page.
func (g *Gateway) navigation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	target := g.target(r)

	resp, err := g.fetch(ctx, target, r.Header)
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(string(PolicyNavigation), "offline_fallback").Inc()
		g.serveOffline(w, r)
		return
	}
	defer resp.Body.Close()

	metrics.GatewayRequests.WithLabelValues(string(PolicyNavigation), "network").Inc()
	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

// asset serves scripts, styles and images network-first. Eligible
// responses (200, non-HTML) are copied into the dynamic cache without
// delaying the reply; on network failure any cached match is served,
// checking the dynamic cache before the precached shell.
func (g *Gateway) asset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	target := g.target(r)

	resp, err := g.fetch(ctx, target, r.Header)
	if err == nil {
		defer resp.Body.Close()
		metrics.GatewayRequests.WithLabelValues(string(PolicyAsset), "network").Inc()
		if isHTMLResponse(resp) {
			copyHeader(w.Header(), resp.Header)
			w.WriteHeader(resp.StatusCode)
			_, _ = io.Copy(w, resp.Body)
			return
		}
		g.relayAndCache(ctx, w, resp, target)
		return
	}

	for _, cache := range []*ResponseCache{g.dynamic, g.static} {
		if stored, ok, cacheErr := cache.Get(ctx, http.MethodGet, target); cacheErr == nil && ok {
			metrics.GatewayRequests.WithLabelValues(string(PolicyAsset), "cache_fallback").Inc()
			w.Header().Set("X-Served-From", "cache")
			serveStored(w, stored)
			return
		}
	}

	metrics.GatewayRequests.WithLabelValues(string(PolicyAsset), "offline").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = io.WriteString(w, offlineBody)
}

// isHTMLResponse reports whether the response carries an HTML document,
// which the asset policy never caches.
func isHTMLResponse(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "text/html")
}

// passthrough proxies the request verbatim without caching.
func (g *Gateway) passthrough(w http.ResponseWriter, r *http.Request, policy Policy) {
	ctx := r.Context()
	target := g.target(r)

	req, err := http.NewRequestWithContext(ctx, r.Method, target, r.Body)
	if err != nil {
		http.Error(w, "bad gateway request", http.StatusBadGateway)
		return
	}
	copyHeader(req.Header, r.Header)

	resp, err := g.client.Do(req)
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(string(policy), "error").Inc()
		http.Error(w, "origin unreachable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	metrics.GatewayRequests.WithLabelValues(string(policy), "network").Inc()
	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

// relayAndCache streams the origin response to the client and, for
// cacheable 200s, stores a copy in the dynamic cache in the background.
func (g *Gateway) relayAndCache(ctx context.Context, w http.ResponseWriter, resp *http.Response, target string) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCachedBodySize+1))
	if err != nil {
		http.Error(w, "origin read failed", http.StatusBadGateway)
		return
	}

	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(body)
	if len(body) > maxCachedBodySize {
		// Relay the remainder and skip caching oversized bodies.
		_, _ = io.Copy(w, resp.Body)
		return
	}

	if resp.StatusCode != http.StatusOK {
		return
	}

	stored := &StoredResponse{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now(),
	}
	// Fire and forget: the client never waits on a cache write.
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := g.dynamic.Put(writeCtx, http.MethodGet, target, stored); err != nil {
			logging.Error().Err(err).Str("url", target).Msg("background cache write failed")
		}
	}()
}

// serveOffline serves the precached offline page, falling back to the
// cached root document, then a bare 502 if neither was ever cached.
func (g *Gateway) serveOffline(w http.ResponseWriter, r *http.Request) {
	for _, path := range []string{"/offline.html", "/"} {
		target := g.origin.ResolveReference(&url.URL{Path: path}).String()
		if stored, ok, err := g.static.Get(r.Context(), http.MethodGet, target); err == nil && ok {
			serveStored(w, stored)
			return
		}
	}
	http.Error(w, "origin unreachable", http.StatusBadGateway)
}

// precachePath fetches one app shell path from the origin into the
// static cache. Used during installation.
func (g *Gateway) precachePath(ctx context.Context, path string) error {
	target := g.origin.ResolveReference(&url.URL{Path: path}).String()
	resp, err := g.fetch(ctx, target, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("precache %s: HTTP %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCachedBodySize))
	if err != nil {
		return fmt.Errorf("precache %s: read body: %w", path, err)
	}
	return g.static.Put(ctx, http.MethodGet, target, &StoredResponse{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now(),
	})
}

// fetch performs a GET against the target, forwarding selected headers.
func (g *Gateway) fetch(ctx context.Context, target string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if header != nil {
		copyHeader(req.Header, header)
	}
	return g.client.Do(req)
}

// target resolves the request to an absolute URL: absolute-form requests
// keep their URL, everything else is resolved against the origin.
func (g *Gateway) target(r *http.Request) string {
	if r.URL.IsAbs() {
		return r.URL.String()
	}
	return g.origin.ResolveReference(&url.URL{Path: r.URL.Path, RawQuery: r.URL.RawQuery}).String()
}

func serveStored(w http.ResponseWriter, stored *StoredResponse) {
	copyHeader(w.Header(), stored.Header)
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}

func copyHeader(dst, src http.Header) {
	for key, values := range src {
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
