// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/recommend/storage"
)

type staticSnapshots struct {
	snap *catalog.Snapshot
}

func (s staticSnapshots) Snapshot() (*catalog.Snapshot, error) {
	return s.snap, nil
}

// testSnapshot: user 1 watched items 1 and 2, user 2 watched item 3.
// Popularity by summed duration is 3 (500), 1 (130), 2 (50).
func testSnapshot() *catalog.Snapshot {
	genres := catalog.NewDimension(catalog.KindGenre, []catalog.DimensionRow{{ID: 1, Name: "Action"}})
	countries := catalog.NewDimension(catalog.KindCountry, []catalog.DimensionRow{{ID: 10, Name: "USA"}})
	people := catalog.NewDimension(catalog.KindPerson, []catalog.DimensionRow{{ID: 100, Name: "Keanu", Role: "actor"}})

	items := []catalog.Item{
		{ID: 1, Name: "One", GenreIDs: []int{1}, CountryIDs: []int{10}, PersonIDs: []int{100}},
		{ID: 2, Name: "Two", GenreIDs: []int{7}},
		{ID: 3, Name: "Three"},
		{ID: 4, Name: "Four"},
		{ID: 5, Name: "Five"},
	}
	at := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
	interactions := []catalog.Interaction{
		{UserID: 1, ItemID: 1, Timestamp: at, Duration: 100},
		{UserID: 1, ItemID: 2, Timestamp: at, Duration: 50},
		{UserID: 1, ItemID: 1, Timestamp: at, Duration: 30},
		{UserID: 2, ItemID: 3, Timestamp: at, Duration: 500},
	}
	return catalog.NewSnapshot(items, genres, countries, people, interactions)
}

// testState is a one-factor model over users 1 and 5. Item 42 is not in
// the catalog and scores highest.
func testState() *storage.FactorModelState {
	return &storage.FactorModelState{
		UserIDs:     []int{1, 5},
		ItemIDs:     []int{1, 2, 3, 4, 5, 42},
		UserFactors: [][]float32{{1}, {-1}},
		ItemFactors: [][]float32{{0.9}, {0.8}, {0.7}, {0.7}, {0.1}, {5}},
	}
}

func testModel(t *testing.T, scorer Scorer) *Model {
	t.Helper()
	state := testState()
	mapper, err := NewMapper(state.UserIDs, state.ItemIDs)
	if err != nil {
		t.Fatalf("NewMapper() error = %v", err)
	}
	if scorer == nil {
		fs, err := NewFactorScorer(state)
		if err != nil {
			t.Fatalf("NewFactorScorer() error = %v", err)
		}
		scorer = fs
	}
	return NewModel(mapper, scorer, ScorerLocal, storage.ModelMetadata{Name: "factors", Version: 1})
}

func newTestService(t *testing.T, model *Model, opts Options) *Service {
	t.Helper()
	svc, err := NewService(staticSnapshots{snap: testSnapshot()}, model, opts)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}

// scorerFunc adapts a function to Scorer.
type scorerFunc func(ctx context.Context, userIndex int, candidates []int) ([]float64, error)

func (f scorerFunc) Score(ctx context.Context, userIndex int, candidates []int) ([]float64, error) {
	return f(ctx, userIndex, candidates)
}

// countingScorer counts calls to the wrapped scorer.
type countingScorer struct {
	next  Scorer
	calls atomic.Int32
}

func (c *countingScorer) Score(ctx context.Context, userIndex int, candidates []int) ([]float64, error) {
	c.calls.Add(1)
	return c.next.Score(ctx, userIndex, candidates)
}

func itemIDs(views []catalog.MovieView) []int {
	ids := make([]int, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	return ids
}
