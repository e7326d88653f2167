// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func itemIDs(items []Item) []int {
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func TestSnapshot_Popular(t *testing.T) {
	t.Parallel()

	snap := fixtureSnapshot(t)

	// movie 42 is not in the catalog; 4 has no log rows
	// totals: 1=130, 2=200, 3=50
	if got := itemIDs(snap.Popular(10)); !reflect.DeepEqual(got, []int{2, 1, 3}) {
		t.Errorf("expected [2 1 3], got %v", got)
	}
	if got := itemIDs(snap.Popular(1)); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("expected [2], got %v", got)
	}
	if got := snap.Popular(0); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestSnapshot_PopularTiesByID(t *testing.T) {
	t.Parallel()

	items := []Item{{ID: 30}, {ID: 10}, {ID: 20}}
	logs := []Interaction{
		{UserID: 1, ItemID: 30, Duration: 5},
		{UserID: 2, ItemID: 10, Duration: 5},
		{UserID: 3, ItemID: 20, Duration: 5},
	}
	snap := NewSnapshot(items, nil, nil, nil, logs)

	if got := itemIDs(snap.Popular(3)); !reflect.DeepEqual(got, []int{10, 20, 30}) {
		t.Errorf("expected ties broken by id, got %v", got)
	}
}

func TestSnapshot_UserQueries(t *testing.T) {
	t.Parallel()

	snap := fixtureSnapshot(t)

	if !snap.HasHistory(1) || snap.HasHistory(99) {
		t.Error("expected history for user 1 only")
	}
	if got := snap.WatchedItemIDs(1); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("expected distinct watched [1 3], got %v", got)
	}
	if got := len(snap.UserInteractions(1)); got != 3 {
		t.Errorf("expected 3 interactions, got %d", got)
	}
	if got := snap.WatchedItemIDs(2); !reflect.DeepEqual(got, []int{2, 42}) {
		t.Errorf("expected stale ids kept in watched set, got %v", got)
	}
	if snap.InteractionCount() != 5 {
		t.Errorf("expected 5 log rows, got %d", snap.InteractionCount())
	}
}

func TestSnapshot_View(t *testing.T) {
	t.Parallel()

	snap := fixtureSnapshot(t)
	heat, ok := snap.Item(3)
	if !ok {
		t.Fatal("expected item 3")
	}

	view := snap.View(heat)
	if !reflect.DeepEqual(view.Genres, []string{"Action", "99"}) {
		t.Errorf("expected missing genre to stringify, got %v", view.Genres)
	}
	if !reflect.DeepEqual(view.Actors, []string{"Keanu"}) {
		t.Errorf("expected [Keanu], got %v", view.Actors)
	}
	if view.Reviews != "[]" {
		t.Errorf("expected empty reviews as [], got %s", view.Reviews)
	}

	matrix, _ := snap.Item(1)
	if got := snap.View(matrix).Reviews; got != `[{"text":"great"}]` {
		t.Errorf("expected canonical reviews, got %s", got)
	}
}

func TestSnapshot_VersionsIncrease(t *testing.T) {
	t.Parallel()

	a := NewSnapshot(nil, nil, nil, nil, nil)
	b := NewSnapshot(nil, nil, nil, nil, nil)
	if b.Version() <= a.Version() {
		t.Errorf("expected increasing versions, got %d then %d", a.Version(), b.Version())
	}
}

func TestStore(t *testing.T) {
	t.Parallel()

	src := fixtureSource()
	store := NewStore(src, LoadOptions{DefaultImage: testImage})

	if store.Ready() {
		t.Error("expected store not ready before load")
	}
	if _, err := store.Snapshot(); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable before load, got %v", err)
	}

	first, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, err := store.Snapshot()
	if err != nil || got != first {
		t.Fatalf("expected published snapshot, got %v %v", got, err)
	}

	src.Fail(TableMovies, errors.New("disk gone"))
	if _, err := store.Load(context.Background()); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("expected reload failure, got %v", err)
	}
	if got, _ := store.Snapshot(); got != first {
		t.Error("expected previous snapshot to stay active after failed reload")
	}
}

func TestStore_Publish(t *testing.T) {
	t.Parallel()

	store := NewStore(fixtureSource(), LoadOptions{DefaultImage: testImage})
	fixture := NewSnapshot([]Item{{ID: 5}}, nil, nil, nil, nil)
	store.Publish(fixture)

	if !store.Ready() {
		t.Error("expected store ready after publish")
	}
	if got, err := store.Snapshot(); err != nil || got != fixture {
		t.Fatalf("expected published fixture, got %v %v", got, err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, _ := store.Snapshot(); got != loaded || got == fixture {
		t.Error("expected Load to replace the published snapshot")
	}
}
