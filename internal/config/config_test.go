// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REELRATE_TMDB_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3857 {
		t.Errorf("Server.Port = %d, want 3857", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("Cache.TTL = %v, want 30m", cfg.Cache.TTL)
	}
	if cfg.Cache.CleanupInterval != 5*time.Minute {
		t.Errorf("Cache.CleanupInterval = %v, want 5m", cfg.Cache.CleanupInterval)
	}
	if cfg.Jikan.RequestsPerSecond != 3 {
		t.Errorf("Jikan.RequestsPerSecond = %v, want 3", cfg.Jikan.RequestsPerSecond)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Errorf("TMDB.APIKey = %q, want test-key", cfg.TMDB.APIKey)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil error, want validation failure for missing API key")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
tmdb:
  api_key: from-file
cache:
  ttl: 10m
gateway:
  skip_waiting: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.TMDB.APIKey != "from-file" {
		t.Errorf("TMDB.APIKey = %q, want from-file", cfg.TMDB.APIKey)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL)
	}
	if !cfg.Gateway.SkipWaiting {
		t.Error("Gateway.SkipWaiting = false, want true")
	}
	if cfg.Cache.CleanupInterval != 5*time.Minute {
		t.Errorf("Cache.CleanupInterval = %v, want default 5m", cfg.Cache.CleanupInterval)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
tmdb:
  api_key: from-file
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("REELRATE_SERVER_PORT", "8181")
	t.Setenv("REELRATE_CACHE_STALE_RETENTION", "48h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8181 {
		t.Errorf("Server.Port = %d, want 8181", cfg.Server.Port)
	}
	if cfg.Cache.StaleRetention != 48*time.Hour {
		t.Errorf("Cache.StaleRetention = %v, want 48h", cfg.Cache.StaleRetention)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("REELRATE_TMDB_API_KEY", "test-key")
	t.Setenv("REELRATE_SERVER_CORS_ORIGINS", "https://reelrate.app, https://staging.reelrate.app")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"https://reelrate.app", "https://staging.reelrate.app"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i, origin := range want {
		if cfg.Server.CORSOrigins[i] != origin {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], origin)
		}
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("REELRATE_TMDB_API_KEY", "test-key")
	t.Setenv("REELRATE_SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil error, want validation failure for port 70000")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"REELRATE_SERVER_PORT", "server.port"},
		{"REELRATE_CACHE_STALE_RETENTION", "cache.stale_retention"},
		{"REELRATE_TMDB_API_KEY", "tmdb.api_key"},
		{"REELRATE_LOGGING_LEVEL", "logging.level"},
		{"REELRATE_UNKNOWN_THING", ""},
		{"REELRATE_SERVER", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestServerAddr(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}
}
