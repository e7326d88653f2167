// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package catalog

import (
	"context"
	"sort"
	"sync/atomic"
	"time"
)

var snapshotSeq atomic.Uint64

// Snapshot is an immutable view of the catalog and the watch log. All
// slices returned by its methods must be treated as read-only.
type Snapshot struct {
	version  uint64
	loadedAt time.Time

	items   []Item
	itemPos map[int]int

	genres    *Dimension
	countries *Dimension
	people    *Dimension

	interactions []Interaction
	byUser       map[int][]int

	// popular holds item positions ranked by summed duration, then id.
	popular []int
}

// NewSnapshot indexes already-normalized data. Items must have unique ids.
func NewSnapshot(items []Item, genres, countries, people *Dimension, interactions []Interaction) *Snapshot {
	s := &Snapshot{
		version:      snapshotSeq.Add(1),
		loadedAt:     time.Now(),
		items:        items,
		itemPos:      make(map[int]int, len(items)),
		genres:       genres,
		countries:    countries,
		people:       people,
		interactions: interactions,
		byUser:       make(map[int][]int),
	}
	for i := range items {
		s.itemPos[items[i].ID] = i
	}
	for i := range interactions {
		uid := interactions[i].UserID
		s.byUser[uid] = append(s.byUser[uid], i)
	}
	s.popular = s.rankPopular()
	return s
}

// Build reads every table from src and returns a new snapshot.
func Build(ctx context.Context, src Source, opts LoadOptions) (*Snapshot, error) {
	items, err := LoadItems(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	genres, err := LoadDimension(ctx, src, KindGenre)
	if err != nil {
		return nil, err
	}
	countries, err := LoadDimension(ctx, src, KindCountry)
	if err != nil {
		return nil, err
	}
	people, err := LoadDimension(ctx, src, KindPerson)
	if err != nil {
		return nil, err
	}
	interactions, err := LoadInteractions(ctx, src)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(items, genres, countries, people, interactions), nil
}

// rankPopular sums durations per catalog item over all users. Only items
// with at least one log row are ranked.
func (s *Snapshot) rankPopular() []int {
	totals := make(map[int]float64)
	for i := range s.interactions {
		if _, ok := s.itemPos[s.interactions[i].ItemID]; ok {
			totals[s.interactions[i].ItemID] += s.interactions[i].Duration
		}
	}

	ranked := make([]int, 0, len(totals))
	for id := range totals {
		ranked = append(ranked, s.itemPos[id])
	}
	sort.Slice(ranked, func(a, b int) bool {
		ia, ib := s.items[ranked[a]].ID, s.items[ranked[b]].ID
		if totals[ia] != totals[ib] {
			return totals[ia] > totals[ib]
		}
		return ia < ib
	})
	return ranked
}

// Version identifies the snapshot. Versions increase with every build.
func (s *Snapshot) Version() uint64 { return s.version }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Items returns all items in source order.
func (s *Snapshot) Items() []Item { return s.items }

// Len returns the number of items.
func (s *Snapshot) Len() int { return len(s.items) }

// InteractionCount returns the number of log rows.
func (s *Snapshot) InteractionCount() int { return len(s.interactions) }

// Genres returns the genre dimension.
func (s *Snapshot) Genres() *Dimension { return s.genres }

// Countries returns the country dimension.
func (s *Snapshot) Countries() *Dimension { return s.countries }

// People returns the person dimension.
func (s *Snapshot) People() *Dimension { return s.people }

// Item looks up an item by id.
func (s *Snapshot) Item(id int) (Item, bool) {
	pos, ok := s.itemPos[id]
	if !ok {
		return Item{}, false
	}
	return s.items[pos], true
}

// HasHistory reports whether the user appears in the watch log.
func (s *Snapshot) HasHistory(userID int) bool {
	return len(s.byUser[userID]) > 0
}

// UserInteractions returns the user's log rows in log order.
func (s *Snapshot) UserInteractions(userID int) []Interaction {
	idx := s.byUser[userID]
	out := make([]Interaction, len(idx))
	for i, pos := range idx {
		out[i] = s.interactions[pos]
	}
	return out
}

// WatchedItemIDs returns the user's distinct item ids in first-seen order.
// Ids missing from the catalog are included.
func (s *Snapshot) WatchedItemIDs(userID int) []int {
	idx := s.byUser[userID]
	seen := make(map[int]struct{}, len(idx))
	ids := make([]int, 0, len(idx))
	for _, pos := range idx {
		id := s.interactions[pos].ItemID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Popular returns up to n items ranked by total watch duration across all
// users, ties by id ascending.
func (s *Snapshot) Popular(n int) []Item {
	if n > len(s.popular) {
		n = len(s.popular)
	}
	if n <= 0 {
		return []Item{}
	}
	out := make([]Item, n)
	for i := 0; i < n; i++ {
		out[i] = s.items[s.popular[i]]
	}
	return out
}
