// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tomtom215/movierec/internal/breaker"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
	"github.com/tomtom215/movierec/internal/recommend/storage"
)

// Scorer kinds accepted by model.scorer.
const (
	ScorerLocal  = "local"
	ScorerRemote = "remote"
)

// Model bundles a trained model's id mapping with the scorer that serves it.
type Model struct {
	mapper     *Mapper
	scorer     Scorer
	scorerKind string
	meta       storage.ModelMetadata
}

// NewModel assembles a model from its parts. kind labels scoring metrics.
func NewModel(mapper *Mapper, scorer Scorer, kind string, meta storage.ModelMetadata) *Model {
	return &Model{mapper: mapper, scorer: scorer, scorerKind: kind, meta: meta}
}

// Mapper returns the id mapping.
func (m *Model) Mapper() *Mapper { return m.mapper }

// Scorer returns the scoring backend.
func (m *Model) Scorer() Scorer { return m.scorer }

// ScorerKind returns "local" or "remote".
func (m *Model) ScorerKind() string { return m.scorerKind }

// Metadata describes the loaded artifact.
func (m *Model) Metadata() storage.ModelMetadata { return m.meta }

// LoadModel loads the latest artifact named cfg.Name from cfg.Dir. An
// empty Dir means no model is configured and returns (nil, nil); every
// user then gets the popularity ranking.
//
// The artifact always provides the id mapping. With the remote scorer the
// factors are served elsewhere, so the artifact may hold the mapping alone
// and only id uniqueness is checked.
func LoadModel(ctx context.Context, cfg config.ModelConfig) (*Model, error) {
	if cfg.Dir == "" {
		return nil, nil
	}
	kind := cfg.Scorer
	switch kind {
	case ScorerRemote:
	case ScorerLocal, "":
		kind = ScorerLocal
	default:
		return nil, fmt.Errorf("unknown scorer %q", cfg.Scorer)
	}
	logger := logging.WithComponent("recommend")

	store, err := storage.NewStore(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}

	var state storage.FactorModelState
	meta, err := store.Load(ctx, cfg.Name, 0, &state)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", cfg.Name, err)
	}
	validate := state.Validate
	if kind == ScorerRemote {
		validate = state.ValidateMapping
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("model %s v%d: %w", meta.Name, meta.Version, err)
	}

	mapper, err := NewMapper(state.UserIDs, state.ItemIDs)
	if err != nil {
		return nil, err
	}

	var scorer Scorer
	if kind == ScorerRemote {
		scorer = NewRemoteScorer(cfg.RemoteURL, cfg.ScoreTimeout, breaker.Defaults())
	} else if scorer, err = NewFactorScorer(&state); err != nil {
		return nil, err
	}

	metrics.ModelInfo.WithLabelValues(meta.Name, strconv.Itoa(meta.Version)).Set(1)
	logger.Info().
		Str("model", meta.Name).
		Int("version", meta.Version).
		Str("scorer", kind).
		Int("users", mapper.NumUsers()).
		Int("items", mapper.NumItems()).
		Int("factors", state.Factors()).
		Time("trained_at", meta.TrainedAt).
		Msg("Model loaded")

	return NewModel(mapper, scorer, kind, *meta), nil
}
