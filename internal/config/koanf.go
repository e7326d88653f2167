// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where a config file is searched, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/movierec/config.yaml",
	"/etc/movierec/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultImageURL is the stock poster used for items without a link.
const DefaultImageURL = "https://images.unsplash.com/photo-1485846234645-a62644f84728?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5001,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Data: DataConfig{
			Dir:             "/app/data",
			MoviesFile:      "movies.csv",
			GenresFile:      "genres.csv",
			CountriesFile:   "countries.csv",
			PeopleFile:      "staff.csv",
			LogsFile:        "logs.csv",
			RefreshInterval: 0,
			Threads:         0,
			MaxMemory:       "1GB",
		},
		Model: ModelConfig{
			Dir:          "/app/models",
			Name:         "factors",
			Scorer:       "local",
			RemoteURL:    "",
			ScoreTimeout: 5 * time.Second,
		},
		Recommend: RecommendConfig{
			DefaultN:        20,
			MaxN:            100,
			CacheTTL:        5 * time.Minute,
			CacheMaxEntries: 10000,
		},
		Catalog: CatalogConfig{
			DefaultPerPage: 20,
			MaxPerPage:     100,
			DefaultImage:   DefaultImageURL,
		},
		Summarize: SummarizeConfig{
			Enabled:           false,
			BaseURL:           "",
			Model:             "gpt-4o-mini",
			Timeout:           60 * time.Second,
			CacheDir:          "/app/cache/summaries",
			CacheTTL:          7 * 24 * time.Hour,
			RequestsPerMinute: 20,
			MaxReviews:        50,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"http://localhost:3000"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf layers defaults, the optional config file and environment
// variables, then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH when set, else the first existing default path.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"data_dir":              "data.dir",
	"data_movies_file":      "data.movies_file",
	"data_genres_file":      "data.genres_file",
	"data_countries_file":   "data.countries_file",
	"data_people_file":      "data.people_file",
	"data_logs_file":        "data.logs_file",
	"data_refresh_interval": "data.refresh_interval",
	"duckdb_threads":        "data.threads",
	"duckdb_max_memory":     "data.max_memory",

	"model_dir":           "model.dir",
	"model_name":          "model.name",
	"model_scorer":        "model.scorer",
	"model_remote_url":    "model.remote_url",
	"model_score_timeout": "model.score_timeout",

	"recommend_default_n":         "recommend.default_n",
	"recommend_max_n":             "recommend.max_n",
	"recommend_cache_ttl":         "recommend.cache_ttl",
	"recommend_cache_max_entries": "recommend.cache_max_entries",

	"catalog_default_per_page": "catalog.default_per_page",
	"catalog_max_per_page":     "catalog.max_per_page",
	"catalog_default_image":    "catalog.default_image",

	"summarize_enabled":             "summarize.enabled",
	"openai_api_key":                "summarize.api_key",
	"openai_base_url":               "summarize.base_url",
	"summarize_model":               "summarize.model",
	"summarize_timeout":             "summarize.timeout",
	"summarize_cache_dir":           "summarize.cache_dir",
	"summarize_cache_ttl":           "summarize.cache_ttl",
	"summarize_requests_per_minute": "summarize.requests_per_minute",
	"summarize_max_reviews":         "summarize.max_reviews",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its koanf path.
// Unmapped variables return "" and are ignored.
//
//   - HTTP_PORT -> server.port
//   - DATA_DIR -> data.dir
//   - OPENAI_API_KEY -> summarize.api_key
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
