// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/movierec/internal/breaker"
)

// remoteScorePath is appended to the scoring service base URL.
const remoteScorePath = "/score"

// maxRemoteResponse caps the scoring response body.
const maxRemoteResponse = 32 << 20

type remoteScoreRequest struct {
	UserIndex int   `json:"user_index"`
	Items     []int `json:"items"`
}

type remoteScoreResponse struct {
	Scores []float64 `json:"scores"`
}

// RemoteScorer delegates scoring to an external model server. Calls go
// through a circuit breaker so a failing server is not hammered.
type RemoteScorer struct {
	url    string
	client *http.Client
	cb     *gobreaker.CircuitBreaker[[]float64]
}

// NewRemoteScorer creates a scorer for the service at baseURL. timeout
// bounds each HTTP round trip.
func NewRemoteScorer(baseURL string, timeout time.Duration, settings breaker.Settings) *RemoteScorer {
	return &RemoteScorer{
		url:    strings.TrimRight(baseURL, "/") + remoteScorePath,
		client: &http.Client{Timeout: timeout},
		cb:     breaker.New[[]float64]("remote-scorer", settings),
	}
}

// Score posts the candidates and returns the server's scores.
func (r *RemoteScorer) Score(ctx context.Context, userIndex int, candidates []int) ([]float64, error) {
	return r.cb.Execute(func() ([]float64, error) {
		return r.post(ctx, userIndex, candidates)
	})
}

func (r *RemoteScorer) post(ctx context.Context, userIndex int, candidates []int) ([]float64, error) {
	payload, err := json.Marshal(remoteScoreRequest{UserIndex: userIndex, Items: candidates})
	if err != nil {
		return nil, fmt.Errorf("failed to encode score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("score request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteResponse))
	if err != nil {
		return nil, fmt.Errorf("failed to read score response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoring service returned status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	var out remoteScoreResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse score response: %w", err)
	}
	if len(out.Scores) != len(candidates) {
		return nil, fmt.Errorf("scoring service returned %d scores for %d items", len(out.Scores), len(candidates))
	}
	return out.Scores, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
