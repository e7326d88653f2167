// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package config loads Movierec configuration from defaults, an optional
// YAML file, and environment variables (in that order of precedence, lowest
// first) using Koanf v2.
package config

import (
	"path/filepath"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Model     ModelConfig     `koanf:"model"`
	Recommend RecommendConfig `koanf:"recommend"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Summarize SummarizeConfig `koanf:"summarize"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DataConfig locates the catalog tables and the interaction log.
type DataConfig struct {
	// Dir is the directory holding the CSV tables.
	Dir string `koanf:"dir"`

	MoviesFile    string `koanf:"movies_file"`
	GenresFile    string `koanf:"genres_file"`
	CountriesFile string `koanf:"countries_file"`
	PeopleFile    string `koanf:"people_file"`
	LogsFile      string `koanf:"logs_file"`

	// RefreshInterval reloads the snapshot periodically. Zero disables it.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// DuckDB tuning for the CSV reader. Threads 0 means runtime.NumCPU().
	Threads   int    `koanf:"threads"`
	MaxMemory string `koanf:"max_memory"`
}

// Path joins Dir with a table file name. Absolute names are returned as is.
func (d DataConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// ModelConfig locates the trained factor model and selects the scorer.
type ModelConfig struct {
	// Dir holds model artifacts written by the training pipeline.
	// Empty runs without a model: every user gets the popularity ranking.
	Dir string `koanf:"dir"`

	// Name is the artifact name; the latest version is loaded.
	Name string `koanf:"name"`

	// Scorer is "local" (in-process factor model) or "remote".
	Scorer string `koanf:"scorer"`

	// RemoteURL is the base URL of the scoring service when Scorer is "remote".
	RemoteURL string `koanf:"remote_url"`

	// ScoreTimeout bounds a single scoring call.
	ScoreTimeout time.Duration `koanf:"score_timeout"`
}

// RecommendConfig controls the recommendation service.
type RecommendConfig struct {
	DefaultN int `koanf:"default_n"`
	MaxN     int `koanf:"max_n"`

	// CacheTTL of zero disables the personalized result cache.
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int64         `koanf:"cache_max_entries"`
}

// CatalogConfig controls catalog listing defaults.
type CatalogConfig struct {
	DefaultPerPage int    `koanf:"default_per_page"`
	MaxPerPage     int    `koanf:"max_per_page"`
	DefaultImage   string `koanf:"default_image"`
}

// SummarizeConfig controls review summarization through an OpenAI-compatible API.
type SummarizeConfig struct {
	Enabled           bool          `koanf:"enabled"`
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	Model             string        `koanf:"model"`
	Timeout           time.Duration `koanf:"timeout"`
	CacheDir          string        `koanf:"cache_dir"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
	MaxReviews        int           `koanf:"max_reviews"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// Load is the entry point used by cmd/server.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
