// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/movierec/internal/middleware"
	"github.com/tomtom215/movierec/internal/models"
)

func TestHealthLive(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, fixtureOptions{noSnapshot: true})

	w := doGet(t, router, "/api/v1/health/live")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Status string              `json:"status"`
		Data   models.HealthStatus `json:"data"`
	}
	decodeBody(t, w, &resp)
	if resp.Status != "success" || resp.Data.Status != "alive" {
		t.Errorf("expected alive success envelope, got %+v", resp)
	}
	if resp.Data.Snapshot != nil {
		t.Error("expected no snapshot detail in liveness response")
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		opts             fixtureOptions
		wantStatus       int
		wantState        string
		wantModel        bool
		wantPersonalized bool
	}{
		{"ready", fixtureOptions{}, http.StatusOK, "ready", true, true},
		{"ready without model", fixtureOptions{noModel: true}, http.StatusOK, "ready", false, false},
		{"no snapshot", fixtureOptions{noSnapshot: true}, http.StatusServiceUnavailable, "not_ready", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router := newTestRouter(t, tt.opts)

			w := doGet(t, router, "/api/v1/health/ready")
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp struct {
				Data models.HealthStatus `json:"data"`
			}
			decodeBody(t, w, &resp)
			health := resp.Data
			if health.Status != tt.wantState {
				t.Errorf("expected state %s, got %s", tt.wantState, health.Status)
			}
			if health.Snapshot == nil || health.Model == nil {
				t.Fatalf("expected snapshot and model detail, got %+v", health)
			}
			if health.Model.Loaded != tt.wantModel {
				t.Errorf("expected model loaded %v, got %v", tt.wantModel, health.Model.Loaded)
			}
			if health.Features["personalized"] != tt.wantPersonalized {
				t.Errorf("expected personalized %v, got %v", tt.wantPersonalized, health.Features["personalized"])
			}
			if !health.Features["summarize"] {
				t.Error("expected summarize feature enabled")
			}
			if health.Snapshot.Loaded && (health.Snapshot.Items != 3 || health.Snapshot.Interactions != 3) {
				t.Errorf("expected 3 items and 3 interactions, got %+v", health.Snapshot)
			}
			if tt.wantModel && (health.Model.Version != 3 || health.Model.Scorer != "local" || health.Model.Items != 3) {
				t.Errorf("expected factors v3 local over 3 items, got %+v", health.Model)
			}
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, fixtureOptions{})

	w := doGet(t, router, "/api/v1/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if body := decodeError(t, w); body.Error.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, body.Error.Code)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, fixtureOptions{})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/v1/movies", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected status 405, got %d", method, w.Code)
		}
	}
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, fixtureOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommend", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(middleware.RequestIDHeader); got != "req-123" {
		t.Errorf("expected request id header req-123, got %q", got)
	}
	if body := decodeError(t, w); body.Metadata.RequestID != "req-123" {
		t.Errorf("expected request_id req-123, got %q", body.Metadata.RequestID)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitRequests = 2
	cfg.Security.RateLimitWindow = time.Minute
	router := newTestRouter(t, fixtureOptions{config: cfg})

	for i := 0; i < 2; i++ {
		if w := doGet(t, router, "/api/v1/movies/filters"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i, w.Code)
		}
	}

	w := doGet(t, router, "/api/v1/movies/filters")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", w.Code)
	}
	if body := decodeError(t, w); body.Error.Code != CodeRateLimited {
		t.Errorf("expected code %s, got %s", CodeRateLimited, body.Error.Code)
	}

	// health probes have their own budget
	if w := doGet(t, router, "/api/v1/health/live"); w.Code != http.StatusOK {
		t.Errorf("expected health probe to pass, got %d", w.Code)
	}
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, fixtureOptions{})

	tests := []struct {
		origin string
		want   string
	}{
		{"http://localhost:3000", "http://localhost:3000"},
		{"https://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/movies", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: expected allow-origin %q, got %q", tt.origin, tt.want, got)
		}
	}
}

func TestRouter_Compression(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, fixtureOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", w.Header().Get("Content-Encoding"))
	}
	gz, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	body, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	if !strings.Contains(string(body), `"total":3`) {
		t.Errorf("expected movie page, got %s", body)
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, fixtureOptions{})

	doGet(t, router, "/api/v1/movies")
	w := doGet(t, router, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "movierec_api_requests_total") {
		t.Error("expected API request metrics in exposition")
	}
}
