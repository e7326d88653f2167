// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/movierec/internal/recommend/storage"
)

// ErrScoringUnavailable is returned when the model cannot produce scores:
// inference failed, timed out, was rejected by the circuit breaker, or
// returned the wrong number of scores.
var ErrScoringUnavailable = errors.New("scoring unavailable")

// Scorer predicts a user's affinity for candidate items. It returns one
// score per candidate in candidate order and must not mutate its inputs.
type Scorer interface {
	Score(ctx context.Context, userIndex int, candidates []int) ([]float64, error)
}

// FactorScorer scores with an in-process matrix factorization model.
type FactorScorer struct {
	state *storage.FactorModelState
}

// NewFactorScorer wraps a validated model state.
func NewFactorScorer(state *storage.FactorModelState) (*FactorScorer, error) {
	if state == nil {
		return nil, errors.New("nil model state")
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model state: %w", err)
	}
	return &FactorScorer{state: state}, nil
}

// Score computes dot(user, item) plus the user and item biases.
func (f *FactorScorer) Score(ctx context.Context, userIndex int, candidates []int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := f.state
	if userIndex < 0 || userIndex >= len(s.UserFactors) {
		return nil, fmt.Errorf("user index %d out of range [0, %d)", userIndex, len(s.UserFactors))
	}

	user := s.UserFactors[userIndex]
	var userBias float64
	if len(s.UserBias) > 0 {
		userBias = float64(s.UserBias[userIndex])
	}

	scores := make([]float64, len(candidates))
	for i, idx := range candidates {
		if idx < 0 || idx >= len(s.ItemFactors) {
			return nil, fmt.Errorf("item index %d out of range [0, %d)", idx, len(s.ItemFactors))
		}
		item := s.ItemFactors[idx]
		var dot float64
		for k := range user {
			dot += float64(user[k]) * float64(item[k])
		}
		score := dot + userBias
		if len(s.ItemBias) > 0 {
			score += float64(s.ItemBias[idx])
		}
		scores[i] = score
	}
	return scores, nil
}
