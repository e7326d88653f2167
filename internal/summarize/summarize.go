// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package summarize condenses a movie's audience reviews into a short
// summary using an OpenAI-compatible chat model.
//
// Outbound calls are rate limited and guarded by a circuit breaker.
// Summaries are cached in BadgerDB keyed by movie and review digest.
package summarize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/movierec/internal/breaker"
	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
)

var (
	// ErrDisabled is returned when summarization is not configured.
	ErrDisabled = errors.New("summarization is disabled")

	// ErrNotFound is returned for a movie id missing from the catalog.
	ErrNotFound = errors.New("movie not found")

	// ErrNoReviews is returned for a movie without review text.
	ErrNoReviews = errors.New("movie has no reviews")

	// ErrUpstream wraps failures of the chat model.
	ErrUpstream = errors.New("summarization upstream failed")
)

const systemPrompt = "You summarize audience reviews of a movie. " +
	"List the main points viewers raise as short bullet points, " +
	"then give the overall opinion in two or three sentences. " +
	"Answer in the language of the reviews."

// SnapshotSource yields the catalog snapshot.
type SnapshotSource interface {
	Snapshot() (*catalog.Snapshot, error)
}

// Options tunes a Service.
type Options struct {
	// Model labels cache entries; a model change misses the cache.
	Model string

	// MaxReviews caps how many reviews go into one prompt. Zero means all.
	MaxReviews int

	// RequestsPerMinute limits outbound calls. Zero means unlimited.
	RequestsPerMinute int
}

// Service produces review summaries.
type Service struct {
	snapshots SnapshotSource
	completer Completer
	cache     *Cache
	limiter   *rate.Limiter
	opts      Options
	logger    zerolog.Logger
}

// New creates a service. A nil completer yields a service whose calls all
// return ErrDisabled. cache may be nil.
func New(snapshots SnapshotSource, completer Completer, cache *Cache, opts Options) *Service {
	limit := rate.Inf
	burst := 1
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
		burst = max(1, opts.RequestsPerMinute/10)
	}
	return &Service{
		snapshots: snapshots,
		completer: completer,
		cache:     cache,
		limiter:   rate.NewLimiter(limit, burst),
		opts:      opts,
		logger:    logging.WithComponent("summarize"),
	}
}

// NewFromConfig wires the OpenAI client and the Badger cache from
// configuration. When summarization is disabled no client or cache is
// created.
func NewFromConfig(cfg config.SummarizeConfig, snapshots SnapshotSource) (*Service, error) {
	opts := Options{
		Model:             cfg.Model,
		MaxReviews:        cfg.MaxReviews,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}
	if !cfg.Enabled || cfg.APIKey == "" {
		return New(snapshots, nil, nil, opts), nil
	}

	cache, err := OpenCache(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	client := NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, breaker.Defaults())
	return New(snapshots, client, cache, opts), nil
}

// Enabled reports whether summaries can be produced.
func (s *Service) Enabled() bool {
	return s.completer != nil
}

// Close releases the cache.
func (s *Service) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

// Summarize returns a summary of the movie's reviews.
func (s *Service) Summarize(ctx context.Context, movieID int) (summary string, err error) {
	start := time.Now()
	result := "success"
	defer func() {
		if err != nil {
			result = resultLabel(err)
		}
		metrics.SummarizeRequests.WithLabelValues(result).Inc()
		metrics.SummarizeDuration.Observe(time.Since(start).Seconds())
	}()

	if !s.Enabled() {
		return "", ErrDisabled
	}
	snap, err := s.snapshots.Snapshot()
	if err != nil {
		return "", err
	}
	item, ok := snap.Item(movieID)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrNotFound, movieID)
	}
	prompt, ok := buildPrompt(item, s.opts.MaxReviews)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrNoReviews, movieID)
	}

	key := cacheKey(movieID, s.opts.Model, prompt)
	if s.cache != nil {
		cached, hit, cerr := s.cache.Get(key)
		if cerr != nil {
			s.logger.Warn().Err(cerr).Int("movie_id", movieID).Msg("Summary cache read failed")
		}
		if hit {
			result = "cache_hit"
			return cached, nil
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit: %w", ErrUpstream, err)
	}
	summary, err = s.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Int("movie_id", movieID).
			Msg("Summarization failed")
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	if s.cache != nil {
		if cerr := s.cache.Put(key, summary, s.opts.Model); cerr != nil {
			s.logger.Warn().Err(cerr).Int("movie_id", movieID).Msg("Summary cache write failed")
		}
	}
	return summary, nil
}

// buildPrompt lists up to maxReviews review texts. It reports false when
// the item has no review text.
func buildPrompt(item catalog.Item, maxReviews int) (string, bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "Movie: %s\n\nReviews:\n", item.Name)
	n := 0
	for _, r := range item.Reviews {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		if maxReviews > 0 && n == maxReviews {
			break
		}
		n++
		fmt.Fprintf(&b, "\n%d. %s\n", n, text)
	}
	return b.String(), n > 0
}

func cacheKey(movieID int, model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return fmt.Sprintf("%d:%s", movieID, hex.EncodeToString(sum[:8]))
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrDisabled):
		return "disabled"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoReviews):
		return "not_found"
	case errors.Is(err, ErrUpstream):
		if breaker.IsRejection(err) {
			return "rejected"
		}
		return "upstream_error"
	default:
		return "error"
	}
}
