// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package main is the entry point for the movierec server.
//
// Movierec serves movie recommendations, a filterable catalog, per-user
// viewing analytics and review summaries over a JSON HTTP API.
//
// # Startup
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Catalog: DuckDB reads the CSV tables into the first snapshot
//  4. Model: the latest trained factor model, if any
//  5. Summarization: OpenAI-compatible client and Badger cache, if enabled
//  6. Supervisor tree: HTTP server and optional snapshot refresh
//
// A failed first snapshot load does not stop the server. Data endpoints and
// the readiness probe answer 503 until a later refresh succeeds. A missing
// model artifact falls back to popularity ranking for every user.
//
// # Example Usage
//
//	export DATA_DIR=/srv/movierec/data
//	export MODEL_DIR=/srv/movierec/models
//	export OPENAI_API_KEY=sk-...
//	export SUMMARIZE_ENABLED=true
//	./movierec
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests for server.shutdown_timeout before exiting.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/movierec/internal/api"
	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/database"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/recommend/storage"
	"github.com/tomtom215/movierec/internal/summarize"
	"github.com/tomtom215/movierec/internal/supervisor"
	"github.com/tomtom215/movierec/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // sequential startup wiring
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("version", version).
		Str("data_dir", cfg.Data.Dir).
		Str("model_dir", cfg.Model.Dir).
		Str("scorer", cfg.Model.Scorer).
		Bool("summarize", cfg.Summarize.Enabled).
		Msg("Starting movierec")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(database.Config{
		Threads:   cfg.Data.Threads,
		MaxMemory: cfg.Data.MaxMemory,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize DuckDB")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	source := database.NewCSVSource(db, database.TableFiles(cfg.Data))
	store := catalog.NewStore(source, catalog.LoadOptions{DefaultImage: cfg.Catalog.DefaultImage})
	if _, err := store.Load(ctx); err != nil {
		// Store.Load logged the cause; serve 503 until a refresh succeeds
		logging.Warn().Msg("Starting without a catalog snapshot")
	}

	model, err := recommend.LoadModel(ctx, cfg.Model)
	switch {
	case errors.Is(err, storage.ErrNoModel):
		logging.Warn().Err(err).Msg("No trained model found, serving popularity ranking only")
		model = nil
	case err != nil:
		logging.Fatal().Err(err).Msg("Failed to load recommendation model")
	case model == nil:
		logging.Info().Msg("No model directory configured, serving popularity ranking only")
	}

	recommender, err := recommend.NewService(store, model, recommend.OptionsFromConfig(cfg))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation service")
	}
	defer recommender.Close()

	summarizer, err := summarize.NewFromConfig(cfg.Summarize, store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize summarization")
	}
	defer func() {
		if err := summarizer.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing summary cache")
		}
	}()
	if !summarizer.Enabled() {
		logging.Info().Msg("Review summarization disabled")
	}

	handler := api.NewHandler(store, recommender, summarizer, cfg, version)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))
	if cfg.Data.RefreshInterval > 0 {
		tree.AddDataService(services.NewRefreshService(store, cfg.Data.RefreshInterval, 0))
		logging.Info().Dur("interval", cfg.Data.RefreshInterval).Msg("Snapshot refresh enabled")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Movierec stopped")
}
