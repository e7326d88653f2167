// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/movierec/internal/analytics"
	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/summarize"
)

// StrategyHeader reports how a recommendation list was produced.
const StrategyHeader = "X-Recommendation-Strategy"

// SnapshotSource yields the active catalog snapshot.
type SnapshotSource interface {
	Snapshot() (*catalog.Snapshot, error)
}

// Handler serves the API endpoints.
type Handler struct {
	snapshots   SnapshotSource
	recommender *recommend.Service
	summarizer  *summarize.Service
	config      *config.Config
	startTime   time.Time
	version     string
}

// NewHandler creates a handler. summarizer may be nil, in which case
// /summarize reports the feature as disabled.
func NewHandler(snapshots SnapshotSource, recommender *recommend.Service, summarizer *summarize.Service, cfg *config.Config, version string) *Handler {
	return &Handler{
		snapshots:   snapshots,
		recommender: recommender,
		summarizer:  summarizer,
		config:      cfg,
		startTime:   time.Now(),
		version:     version,
	}
}

// Recommend handles GET /recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	req, err := parseRecommendRequest(r.URL.Query(), h.config.Recommend)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp, err := h.recommender.Recommend(r.Context(), req.UserID, req.N)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.Header().Set(StrategyHeader, string(resp.Strategy))
	respondJSON(w, r, http.StatusOK, resp.Items)
}

// Movies handles GET /movies.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	req, err := parseMoviesRequest(r.URL.Query(), h.config.Catalog)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	snap, err := h.snapshots.Snapshot()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	page := catalog.ListMovies(snap, catalog.Query{
		Search:    req.Search,
		Years:     req.Years,
		Countries: req.Countries,
		Genres:    req.Genres,
		Page:      req.Page,
		PerPage:   req.PerPage,
	})
	respondJSON(w, r, http.StatusOK, page)
}

// MovieFilters handles GET /movies/filters.
func (h *Handler) MovieFilters(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Snapshot()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, catalog.FilterOptions(snap))
}

// Analytics handles GET /analytics.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	req, err := parseAnalyticsRequest(r.URL.Query())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	snap, err := h.snapshots.Snapshot()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, analytics.Analyze(snap, req.UserID, req.MinMovies))
}

// History handles GET /history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	req, err := parseUserRequest(r.URL.Query())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	snap, err := h.snapshots.Snapshot()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, catalog.History(snap, req.UserID))
}

// SummaryResponse is the body of GET /summarize.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// Summarize handles GET /summarize.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	req, err := parseSummarizeRequest(r.URL.Query())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if h.summarizer == nil {
		respondServiceError(w, r, summarize.ErrDisabled)
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), req.MovieID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, SummaryResponse{Summary: summary})
}
