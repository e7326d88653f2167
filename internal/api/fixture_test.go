// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/recommend/storage"
	"github.com/tomtom215/movierec/internal/summarize"
)

// testSnapshot: user 1 watched item 1, user 2 watched items 3 then 2.
// Popularity by summed duration is 3 (500), 1 (100), 2 (50).
func testSnapshot() *catalog.Snapshot {
	genres := catalog.NewDimension(catalog.KindGenre, []catalog.DimensionRow{
		{ID: 1, Name: "Action"},
		{ID: 2, Name: "Comedy"},
	})
	countries := catalog.NewDimension(catalog.KindCountry, []catalog.DimensionRow{
		{ID: 10, Name: "USA"},
		{ID: 11, Name: "France"},
	})
	people := catalog.NewDimension(catalog.KindPerson, []catalog.DimensionRow{
		{ID: 100, Name: "Keanu Reeves", Role: "actor"},
		{ID: 101, Name: "Audrey Tautou", Role: "actor"},
	})

	items := []catalog.Item{
		{
			ID: 1, Name: "The Matrix", Year: 1999,
			GenreIDs: []int{1}, CountryIDs: []int{10}, PersonIDs: []int{100},
			Link:    "https://img/1.jpg",
			Reviews: []catalog.Review{{Text: "Great action"}, {Text: "Mind-bending"}},
		},
		{ID: 2, Name: "Amelie", Year: 2001, GenreIDs: []int{2}, CountryIDs: []int{11}, PersonIDs: []int{101}},
		{ID: 3, Name: "Heat", Year: 1995, GenreIDs: []int{1}, CountryIDs: []int{10}},
	}
	at := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC) // a Monday
	interactions := []catalog.Interaction{
		{UserID: 1, ItemID: 1, Timestamp: at, Duration: 100},
		{UserID: 2, ItemID: 3, Timestamp: at, Duration: 500},
		{UserID: 2, ItemID: 2, Timestamp: at.Add(24 * time.Hour), Duration: 50},
	}
	return catalog.NewSnapshot(items, genres, countries, people, interactions)
}

// testModel scores items 2 > 3 > 1 for user 1. User 2 is not in the model.
func testModel(t *testing.T) *recommend.Model {
	t.Helper()
	state := &storage.FactorModelState{
		UserIDs:     []int{1},
		ItemIDs:     []int{1, 2, 3},
		UserFactors: [][]float32{{1}},
		ItemFactors: [][]float32{{0.1}, {0.9}, {0.5}},
	}
	mapper, err := recommend.NewMapper(state.UserIDs, state.ItemIDs)
	if err != nil {
		t.Fatalf("NewMapper() error = %v", err)
	}
	scorer, err := recommend.NewFactorScorer(state)
	if err != nil {
		t.Fatalf("NewFactorScorer() error = %v", err)
	}
	return recommend.NewModel(mapper, scorer, recommend.ScorerLocal, storage.ModelMetadata{
		Name:      "factors",
		Version:   3,
		TrainedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

type completerFunc func(ctx context.Context, system, user string) (string, error)

func (f completerFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func testConfig() *config.Config {
	return &config.Config{
		Recommend: config.RecommendConfig{DefaultN: 20, MaxN: 100},
		Catalog:   config.CatalogConfig{DefaultPerPage: 20, MaxPerPage: 100},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"http://localhost:3000"},
			RateLimitDisabled: true,
		},
	}
}

type fixtureOptions struct {
	noSnapshot bool
	noModel    bool
	completer  summarize.Completer
	config     *config.Config
}

// newTestRouter builds the full router over the test catalog.
func newTestRouter(t *testing.T, opts fixtureOptions) http.Handler {
	t.Helper()

	store := catalog.NewStore(catalog.NewMemorySource(), catalog.LoadOptions{})
	if !opts.noSnapshot {
		store.Publish(testSnapshot())
	}

	var model *recommend.Model
	if !opts.noModel {
		model = testModel(t)
	}
	recommender, err := recommend.NewService(store, model, recommend.Options{})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(recommender.Close)

	completer := opts.completer
	if completer == nil {
		completer = completerFunc(func(context.Context, string, string) (string, error) {
			return "Viewers love it.", nil
		})
	}
	summarizer := summarize.New(store, completer, nil, summarize.Options{Model: "test-model"})

	cfg := opts.config
	if cfg == nil {
		cfg = testConfig()
	}
	handler := NewHandler(store, recommender, summarizer, cfg, "test")
	return NewRouter(handler, NewChiMiddleware(ChiMiddlewareConfigFromSecurity(cfg.Security))).Setup()
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

// errorBody is the decoded error envelope.
type errorBody struct {
	Status   string `json:"status"`
	Data     interface{}
	Metadata struct {
		RequestID string `json:"request_id"`
	} `json:"metadata"`
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decodeBody(t, w, &body)
	if body.Status != "error" {
		t.Errorf("expected status error, got %q", body.Status)
	}
	return body
}

func movieIDs(movies []catalog.MovieView) []int {
	ids := make([]int, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}
