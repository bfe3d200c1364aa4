// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package gateway

import (
	"net/http"
	"regexp"
	"strings"
)

// Policy is the caching strategy applied to one request.
type Policy string

const (
	// PolicyAPI is cache-aside for approved API origins: network first,
	// successful responses stored in the dynamic cache, cached copy on
	// network failure.
	PolicyAPI Policy = "api_cache_aside"

	// PolicyNavigation is network-first for page loads. Responses are
	// never cached so stale HTML is never served; the precached offline
	// page is the fallback.
	PolicyNavigation Policy = "navigation"

	// PolicyAsset is network-first for scripts, styles and images, with
	// fire-and-forget caching of eligible responses and a cache fallback.
	PolicyAsset Policy = "asset"

	// PolicyPassthrough proxies verbatim and never caches. Reserved for
	// origin-relative traffic and writes to approved API origins.
	PolicyPassthrough Policy = "passthrough"

	// PolicyDenied rejects the request without contacting any host.
	PolicyDenied Policy = "denied"
)

// apiOriginPatterns lists the external API origins the gateway is willing
// to proxy and cache. Anything else in absolute form is rejected.
var apiOriginPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https://api\.themoviedb\.org/`),
	regexp.MustCompile(`^https://api\.jikan\.moe/`),
	regexp.MustCompile(`^https://image\.tmdb\.org/`),
	regexp.MustCompile(`^https://[a-z0-9-]+\.supabase\.co/`),
}

// AllowedAPIOrigin reports whether the absolute URL belongs to an
// approved external API origin.
func AllowedAPIOrigin(rawURL string) bool {
	for _, p := range apiOriginPatterns {
		if p.MatchString(rawURL) {
			return true
		}
	}
	return false
}

// Classify picks exactly one policy per request, in priority order:
// approved API origins, then navigations, then assets.
//
// Absolute-form URLs off the API allowlist are denied outright so the
// gateway cannot be used as an open proxy into arbitrary hosts.
//
// Non-GET requests pass through uncached: replaying a cached POST would
// duplicate writes.
func Classify(r *http.Request) Policy {
	if r.URL.IsAbs() {
		if !AllowedAPIOrigin(r.URL.String()) {
			return PolicyDenied
		}
		if r.Method != http.MethodGet {
			return PolicyPassthrough
		}
		return PolicyAPI
	}
	if r.Method != http.MethodGet {
		return PolicyPassthrough
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return PolicyAPI
	}
	if isNavigation(r) {
		return PolicyNavigation
	}
	return PolicyAsset
}

// isNavigation reports whether the request looks like a page navigation,
// which gets the offline page as a last resort instead of a bare error.
func isNavigation(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
