// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/validation"
)

// RecommendRequest is the query of GET /recommend.
type RecommendRequest struct {
	UserID int `query:"user_id"`
	N      int `query:"n" validate:"min=1"`
}

// MoviesRequest is the query of GET /movies.
type MoviesRequest struct {
	Search    string   `query:"search" validate:"max=200"`
	Years     []int    `query:"years" validate:"max=100"`
	Countries []string `query:"countries" validate:"max=100"`
	Genres    []string `query:"genres" validate:"max=100"`
	Page      int      `query:"page" validate:"min=1"`
	PerPage   int      `query:"per_page" validate:"min=1"`
}

// AnalyticsRequest is the query of GET /analytics.
type AnalyticsRequest struct {
	UserID    int `query:"user_id"`
	MinMovies int `query:"min_movies" validate:"min=0"`
}

// UserRequest is the query of endpoints keyed by user only.
type UserRequest struct {
	UserID int `query:"user_id"`
}

// SummarizeRequest is the query of GET /summarize.
type SummarizeRequest struct {
	MovieID int `query:"movie_id"`
}

func parseRecommendRequest(q url.Values, cfg config.RecommendConfig) (RecommendRequest, error) {
	var req RecommendRequest
	var err error
	if req.UserID, err = requiredInt(q, "user_id"); err != nil {
		return req, err
	}
	if req.N, err = optionalInt(q, "n", cfg.DefaultN); err != nil {
		return req, err
	}
	if err := validate(&req); err != nil {
		return req, err
	}
	if cfg.MaxN > 0 && req.N > cfg.MaxN {
		return req, validation.NewRequestValidationError("n", fmt.Sprintf("n must be at most %d", cfg.MaxN))
	}
	return req, nil
}

func parseMoviesRequest(q url.Values, cfg config.CatalogConfig) (MoviesRequest, error) {
	req := MoviesRequest{
		Search:    strings.TrimSpace(q.Get("search")),
		Countries: parseCommaSeparated(q.Get("countries")),
		Genres:    parseCommaSeparated(q.Get("genres")),
	}
	var err error
	if req.Years, err = parseCommaSeparatedInts("years", q.Get("years")); err != nil {
		return req, err
	}
	if req.Page, err = optionalInt(q, "page", 1); err != nil {
		return req, err
	}
	if req.PerPage, err = optionalInt(q, "per_page", cfg.DefaultPerPage); err != nil {
		return req, err
	}
	if err := validate(&req); err != nil {
		return req, err
	}
	if cfg.MaxPerPage > 0 && req.PerPage > cfg.MaxPerPage {
		return req, validation.NewRequestValidationError("per_page", fmt.Sprintf("per_page must be at most %d", cfg.MaxPerPage))
	}
	return req, nil
}

func parseAnalyticsRequest(q url.Values) (AnalyticsRequest, error) {
	var req AnalyticsRequest
	var err error
	if req.UserID, err = requiredInt(q, "user_id"); err != nil {
		return req, err
	}
	if req.MinMovies, err = optionalInt(q, "min_movies", 1); err != nil {
		return req, err
	}
	return req, validate(&req)
}

func parseUserRequest(q url.Values) (UserRequest, error) {
	userID, err := requiredInt(q, "user_id")
	return UserRequest{UserID: userID}, err
}

func parseSummarizeRequest(q url.Values) (SummarizeRequest, error) {
	movieID, err := requiredInt(q, "movie_id")
	return SummarizeRequest{MovieID: movieID}, err
}

// validate runs struct tag validation. It returns a plain nil error on
// success so callers can compare against nil.
func validate(v interface{}) error {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr
	}
	return nil
}

func requiredInt(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, validation.NewRequestValidationError(key, key+" is required")
	}
	return parseInt(key, raw)
}

func optionalInt(q url.Values, key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return defaultValue, nil
	}
	return parseInt(key, raw)
}

func parseInt(key, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.NewRequestValidationError(key, key+" must be an integer")
	}
	return v, nil
}

// parseCommaSeparated splits a list parameter, dropping blanks.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parseCommaSeparatedInts is parseCommaSeparated for integer lists. Any
// non-integer element fails the request.
func parseCommaSeparatedInts(key, value string) ([]int, error) {
	parts := parseCommaSeparated(value)
	if len(parts) == 0 {
		return nil, nil
	}
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, validation.NewRequestValidationError(key, fmt.Sprintf("%s contains an invalid value: %q", key, part))
		}
		result = append(result, n)
	}
	return result, nil
}
