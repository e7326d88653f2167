// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/models"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/summarize"
	"github.com/tomtom215/movierec/internal/validation"
)

// Error codes carried in the envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeUpstream           = "UPSTREAM_ERROR"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	CodeInternal           = "INTERNAL_ERROR"
)

// respondJSON writes payload as the response body.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes the error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, r, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, r, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
	})
}

func respondValidationError(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

// respondServiceError maps a service error to a status and envelope. Server
// side failures are logged in full and reported with a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		respondValidationError(w, r, verr)
		return
	}

	status, code, message := classifyError(err)
	logger := logging.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Str("code", code).Str("path", sanitizeLogValue(r.URL.Path)).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Str("code", code).Msg("Request rejected")
	}
	respondError(w, r, status, code, message, nil)
}

func classifyError(err error) (int, string, string) {
	switch {
	case errors.Is(err, catalog.ErrDataUnavailable):
		return http.StatusServiceUnavailable, CodeServiceUnavailable, "Catalog data is not available"
	case errors.Is(err, recommend.ErrScoringUnavailable):
		return http.StatusServiceUnavailable, CodeServiceUnavailable, "Recommendations are temporarily unavailable"
	case errors.Is(err, summarize.ErrDisabled):
		return http.StatusServiceUnavailable, CodeServiceUnavailable, "Review summarization is not enabled"
	case errors.Is(err, summarize.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, "Movie not found"
	case errors.Is(err, summarize.ErrNoReviews):
		return http.StatusNotFound, CodeNotFound, "Movie has no reviews"
	case errors.Is(err, summarize.ErrUpstream):
		return http.StatusBadGateway, CodeUpstream, "Summarization service failed"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, CodeServiceUnavailable, "Request timed out"
	default:
		return http.StatusInternalServerError, CodeInternal, "Internal server error"
	}
}

// sanitizeLogValue strips control characters from client supplied values.
func sanitizeLogValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
