// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 5001 {
		t.Errorf("Server.Port = %d, want 5001", cfg.Server.Port)
	}
	if cfg.Data.MoviesFile != "movies.csv" {
		t.Errorf("Data.MoviesFile = %q, want movies.csv", cfg.Data.MoviesFile)
	}
	if cfg.Data.PeopleFile != "staff.csv" {
		t.Errorf("Data.PeopleFile = %q, want staff.csv", cfg.Data.PeopleFile)
	}
	if cfg.Recommend.DefaultN != 20 {
		t.Errorf("Recommend.DefaultN = %d, want 20", cfg.Recommend.DefaultN)
	}
	if cfg.Catalog.DefaultPerPage != 20 {
		t.Errorf("Catalog.DefaultPerPage = %d, want 20", cfg.Catalog.DefaultPerPage)
	}
	if cfg.Catalog.DefaultImage != DefaultImageURL {
		t.Errorf("Catalog.DefaultImage = %q, want stock image", cfg.Catalog.DefaultImage)
	}
	if cfg.Model.Scorer != "local" {
		t.Errorf("Model.Scorer = %q, want local", cfg.Model.Scorer)
	}
	if cfg.Summarize.Enabled {
		t.Error("Summarize.Enabled should be false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DATA_DIR", "data.dir"},
		{"OPENAI_API_KEY", "summarize.api_key"},
		{"MODEL_SCORER", "model.scorer"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DATA_DIR", "/srv/data")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_CACHE_TTL", "30s")
	t.Setenv("CORS_ORIGINS", "http://a.local, http://b.local")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Data.Dir != "/srv/data" {
		t.Errorf("Data.Dir = %q, want /srv/data", cfg.Data.Dir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.CacheTTL != 30*time.Second {
		t.Errorf("Recommend.CacheTTL = %v, want 30s", cfg.Recommend.CacheTTL)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "http://b.local" {
		t.Errorf("Security.CORSOrigins = %v, want two trimmed origins", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
data:
  dir: /var/lib/movierec
  refresh_interval: 10m
model:
  scorer: remote
  remote_url: http://scorer:5000
recommend:
  default_n: 10
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("RECOMMEND_DEFAULT_N", "15")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Data.Dir != "/var/lib/movierec" {
		t.Errorf("Data.Dir = %q, want /var/lib/movierec", cfg.Data.Dir)
	}
	if cfg.Data.RefreshInterval != 10*time.Minute {
		t.Errorf("Data.RefreshInterval = %v, want 10m", cfg.Data.RefreshInterval)
	}
	if cfg.Model.Scorer != "remote" || cfg.Model.RemoteURL != "http://scorer:5000" {
		t.Errorf("Model = %+v, want remote scorer", cfg.Model)
	}
	// env wins over file
	if cfg.Recommend.DefaultN != 15 {
		t.Errorf("Recommend.DefaultN = %d, want 15", cfg.Recommend.DefaultN)
	}
}

func TestDataConfigPath(t *testing.T) {
	t.Parallel()

	d := DataConfig{Dir: "/data"}
	if got := d.Path("movies.csv"); got != filepath.Join("/data", "movies.csv") {
		t.Errorf("Path(movies.csv) = %q", got)
	}
	if got := d.Path("/elsewhere/logs.csv"); got != "/elsewhere/logs.csv" {
		t.Errorf("Path(abs) = %q, want unchanged", got)
	}
}
