// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/movierec/internal/logging"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateData(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateSummarize(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateData() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	files := map[string]string{
		"DATA_MOVIES_FILE":    c.Data.MoviesFile,
		"DATA_GENRES_FILE":    c.Data.GenresFile,
		"DATA_COUNTRIES_FILE": c.Data.CountriesFile,
		"DATA_PEOPLE_FILE":    c.Data.PeopleFile,
		"DATA_LOGS_FILE":      c.Data.LogsFile,
	}
	for name, value := range files {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	if c.Data.RefreshInterval < 0 {
		return fmt.Errorf("DATA_REFRESH_INTERVAL must not be negative")
	}
	if c.Data.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

// validateModel checks scorer selection. An empty Dir is allowed and means
// popularity-only operation.
func (c *Config) validateModel() error {
	switch c.Model.Scorer {
	case "local":
	case "remote":
		if c.Model.RemoteURL == "" {
			return fmt.Errorf("MODEL_REMOTE_URL is required when MODEL_SCORER=remote")
		}
		if _, err := url.ParseRequestURI(c.Model.RemoteURL); err != nil {
			return fmt.Errorf("MODEL_REMOTE_URL is not a valid URL: %w", err)
		}
	default:
		return fmt.Errorf("MODEL_SCORER must be 'local' or 'remote', got %q", c.Model.Scorer)
	}
	if c.Model.Dir != "" && c.Model.Name == "" {
		return fmt.Errorf("MODEL_NAME is required when MODEL_DIR is set")
	}
	if c.Model.ScoreTimeout <= 0 {
		return fmt.Errorf("MODEL_SCORE_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.MaxN < 1 {
		return fmt.Errorf("RECOMMEND_MAX_N must be at least 1")
	}
	if c.Recommend.DefaultN < 1 || c.Recommend.DefaultN > c.Recommend.MaxN {
		return fmt.Errorf("RECOMMEND_DEFAULT_N must be between 1 and %d, got %d", c.Recommend.MaxN, c.Recommend.DefaultN)
	}
	if c.Recommend.CacheTTL < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must not be negative")
	}
	if c.Recommend.CacheTTL > 0 && c.Recommend.CacheMaxEntries < 1 {
		return fmt.Errorf("RECOMMEND_CACHE_MAX_ENTRIES must be at least 1 when caching is enabled")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.MaxPerPage < 1 {
		return fmt.Errorf("CATALOG_MAX_PER_PAGE must be at least 1")
	}
	if c.Catalog.DefaultPerPage < 1 || c.Catalog.DefaultPerPage > c.Catalog.MaxPerPage {
		return fmt.Errorf("CATALOG_DEFAULT_PER_PAGE must be between 1 and %d, got %d",
			c.Catalog.MaxPerPage, c.Catalog.DefaultPerPage)
	}
	return nil
}

func (c *Config) validateSummarize() error {
	if !c.Summarize.Enabled {
		return nil
	}
	if c.Summarize.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when SUMMARIZE_ENABLED=true")
	}
	if c.Summarize.Model == "" {
		return fmt.Errorf("SUMMARIZE_MODEL must not be empty")
	}
	if c.Summarize.Timeout <= 0 {
		return fmt.Errorf("SUMMARIZE_TIMEOUT must be positive")
	}
	if c.Summarize.RequestsPerMinute < 1 {
		return fmt.Errorf("SUMMARIZE_REQUESTS_PER_MINUTE must be at least 1")
	}
	if c.Summarize.MaxReviews < 1 {
		return fmt.Errorf("SUMMARIZE_MAX_REVIEWS must be at least 1")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if _, err := url.ParseRequestURI(origin); err != nil {
			return fmt.Errorf("invalid CORS origin %q: %w", origin, err)
		}
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}
