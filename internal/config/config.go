// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package config

import (
	"fmt"
	"time"

	"github.com/reelrate/edge/internal/validation"
)

// Config holds all application configuration.
// It is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	TMDB    TMDBConfig    `koanf:"tmdb"`
	Jikan   JikanConfig   `koanf:"jikan"`
	Gateway GatewayConfig `koanf:"gateway"`
	Cache   CacheConfig   `koanf:"cache"`
	Outbox  OutboxConfig  `koanf:"outbox"`
	Online  OnlineConfig  `koanf:"online"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimit       int           `koanf:"rate_limit" validate:"min=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// Addr returns the host:port address for the HTTP listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TMDBConfig configures the TMDB upstream client.
type TMDBConfig struct {
	APIKey   string `koanf:"api_key" validate:"required"`
	BaseURL  string `koanf:"base_url" validate:"url"`
	Language string `koanf:"language"`
}

// JikanConfig configures the Jikan upstream client.
type JikanConfig struct {
	BaseURL           string  `koanf:"base_url" validate:"url"`
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0"`
}

// GatewayConfig configures the caching gateway.
type GatewayConfig struct {
	Origin      string `koanf:"origin" validate:"required,url"`
	SkipWaiting bool   `koanf:"skip_waiting"`
}

// CacheConfig configures the two-tier cache and its durable store.
type CacheConfig struct {
	Dir             string        `koanf:"dir" validate:"required"`
	TTL             time.Duration `koanf:"ttl" validate:"gt=0"`
	StaleRetention  time.Duration `koanf:"stale_retention" validate:"gt=0"`
	CleanupInterval time.Duration `koanf:"cleanup_interval" validate:"gt=0"`
}

// OutboxConfig configures queued write replay.
type OutboxConfig struct {
	SweepInterval   time.Duration `koanf:"sweep_interval" validate:"gt=0"`
	CompactInterval time.Duration `koanf:"compact_interval" validate:"gt=0"`
}

// OnlineConfig configures connectivity detection.
type OnlineConfig struct {
	OfflineThreshold int           `koanf:"offline_threshold" validate:"min=1"`
	ProbeURL         string        `koanf:"probe_url" validate:"omitempty,url"`
	ProbeInterval    time.Duration `koanf:"probe_interval" validate:"gt=0"`
}

// LoggingConfig configures structured logging output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns a Config with all default values.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3857,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       100,
			CORSOrigins:     []string{"*"},
		},
		TMDB: TMDBConfig{
			APIKey:   "",
			BaseURL:  "https://api.themoviedb.org/3",
			Language: "en-US",
		},
		Jikan: JikanConfig{
			BaseURL:           "https://api.jikan.moe/v4",
			RequestsPerSecond: 3,
		},
		Gateway: GatewayConfig{
			Origin:      "http://localhost:3000",
			SkipWaiting: false,
		},
		Cache: CacheConfig{
			Dir:             "/data/reelrate",
			TTL:             30 * time.Minute,
			StaleRetention:  24 * time.Hour,
			CleanupInterval: 5 * time.Minute,
		},
		Outbox: OutboxConfig{
			SweepInterval:   5 * time.Minute,
			CompactInterval: time.Hour,
		},
		Online: OnlineConfig{
			OfflineThreshold: 3,
			ProbeURL:         "",
			ProbeInterval:    30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	return nil
}
