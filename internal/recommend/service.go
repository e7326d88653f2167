// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
	"github.com/tomtom215/movierec/internal/validation"
)

// Strategy names how a response was produced.
type Strategy string

const (
	StrategyPopular         Strategy = "popular"
	StrategyPopularFallback Strategy = "popular_fallback"
	StrategyPersonalized    Strategy = "personalized"
)

// Fallback reasons reported in metrics.
const (
	fallbackNoModel     = "no_model"
	fallbackUnknownUser = "unknown_user"
)

// Response is a ranked recommendation list, best first.
type Response struct {
	Items    []catalog.MovieView `json:"items"`
	Strategy Strategy            `json:"strategy"`
}

// SnapshotSource yields the catalog snapshot to rank against.
type SnapshotSource interface {
	Snapshot() (*catalog.Snapshot, error)
}

// Options tunes the service.
type Options struct {
	// ScoreTimeout bounds each scoring call. Zero means no extra deadline.
	ScoreTimeout time.Duration

	// CacheTTL and CacheMaxEntries enable the personalized result cache
	// when both are positive.
	CacheTTL        time.Duration
	CacheMaxEntries int64
}

// OptionsFromConfig extracts service options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ScoreTimeout:    cfg.Model.ScoreTimeout,
		CacheTTL:        cfg.Recommend.CacheTTL,
		CacheMaxEntries: cfg.Recommend.CacheMaxEntries,
	}
}

// Service produces recommendations. model may be nil, in which case every
// user is served the popularity ranking.
type Service struct {
	snapshots SnapshotSource
	model     *Model
	opts      Options
	cache     *resultCache
	logger    zerolog.Logger
}

// NewService creates a recommendation service. Call Close to release the
// result cache.
func NewService(snapshots SnapshotSource, model *Model, opts Options) (*Service, error) {
	cache, err := newResultCache(opts.CacheMaxEntries, opts.CacheTTL)
	if err != nil {
		return nil, err
	}
	return &Service{
		snapshots: snapshots,
		model:     model,
		opts:      opts,
		cache:     cache,
		logger:    logging.WithComponent("recommend"),
	}, nil
}

// Model returns the loaded model, or nil.
func (s *Service) Model() *Model { return s.model }

// Close releases the result cache.
func (s *Service) Close() {
	s.cache.close()
}

// Recommend returns up to n items for the user. A short list is not an
// error. Failures are catalog.ErrDataUnavailable or ErrScoringUnavailable.
func (s *Service) Recommend(ctx context.Context, userID, n int) (*Response, error) {
	if n < 1 {
		return nil, validation.NewRequestValidationError("n", "n must be at least 1")
	}
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.recommend(ctx, snap, userID, n)
	if err != nil {
		return nil, err
	}
	metrics.RecordRecommendation(string(resp.Strategy), time.Since(start))
	return resp, nil
}

func (s *Service) recommend(ctx context.Context, snap *catalog.Snapshot, userID, n int) (*Response, error) {
	if !snap.HasHistory(userID) {
		return popular(snap, n, StrategyPopular), nil
	}
	if s.model == nil {
		s.fallback(ctx, userID, fallbackNoModel)
		return popular(snap, n, StrategyPopularFallback), nil
	}
	userIndex, ok := s.model.mapper.UserIndex(userID)
	if !ok {
		s.fallback(ctx, userID, fallbackUnknownUser)
		return popular(snap, n, StrategyPopularFallback), nil
	}

	key := cacheKey(snap.Version(), userID, n)
	if cached, ok := s.cache.get(key); ok {
		return cached, nil
	}

	items, err := s.personalized(ctx, snap, userID, userIndex, n)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Int("user_id", userID).
			Msg("Scoring failed")
		return nil, err
	}
	resp := &Response{Items: snap.Views(items), Strategy: StrategyPersonalized}
	s.cache.set(key, resp)
	return resp, nil
}

func popular(snap *catalog.Snapshot, n int, strategy Strategy) *Response {
	return &Response{Items: snap.Views(snap.Popular(n)), Strategy: strategy}
}

// fallback records a user who has history but cannot be personalized.
func (s *Service) fallback(ctx context.Context, userID int, reason string) {
	metrics.RecommendFallbacks.WithLabelValues(reason).Inc()
	s.logger.Warn().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Int("user_id", userID).
		Str("reason", reason).
		Msg("User has history but no model row, serving popular items")
}

func (s *Service) personalized(ctx context.Context, snap *catalog.Snapshot, userID, userIndex, n int) ([]catalog.Item, error) {
	mapper := s.model.mapper

	watched := make(map[int]struct{})
	for _, id := range snap.WatchedItemIDs(userID) {
		if idx, ok := mapper.ItemIndex(id); ok {
			watched[idx] = struct{}{}
		}
	}

	candidates := make([]int, mapper.NumItems())
	for i := range candidates {
		candidates[i] = i
	}

	scores, err := s.score(ctx, userIndex, candidates)
	if err != nil {
		return nil, err
	}

	items := make([]catalog.Item, 0, min(n, len(candidates)))
	for _, idx := range rankUnwatched(scores, watched) {
		if len(items) == n {
			break
		}
		// ids the catalog no longer carries are skipped
		if item, ok := snap.Item(mapper.ItemID(idx)); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *Service) score(ctx context.Context, userIndex int, candidates []int) ([]float64, error) {
	if s.opts.ScoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ScoreTimeout)
		defer cancel()
	}

	start := time.Now()
	scores, err := s.model.scorer.Score(ctx, userIndex, candidates)
	if err == nil && len(scores) != len(candidates) {
		err = fmt.Errorf("got %d scores for %d candidates", len(scores), len(candidates))
	}
	metrics.RecordScore(s.model.scorerKind, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScoringUnavailable, err)
	}
	return scores, nil
}

// rankUnwatched orders the indices missing from watched by score
// descending, ties by index ascending. NaN scores rank last.
func rankUnwatched(scores []float64, watched map[int]struct{}) []int {
	ranked := make([]int, 0, len(scores))
	for idx := range scores {
		if _, seen := watched[idx]; !seen {
			ranked = append(ranked, idx)
		}
	}
	slices.SortFunc(ranked, func(a, b int) int {
		sa, sb := sortable(scores[a]), sortable(scores[b])
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return cmp.Compare(a, b)
	})
	return ranked
}

func sortable(score float64) float64 {
	if math.IsNaN(score) {
		return math.Inf(-1)
	}
	return score
}
