// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package analytics summarizes a user's viewing history by genre, country,
// weekday and actor.
//
// Every log row counts, so rewatching an item counts its genres, countries
// and actors again. Rows whose item is missing from the catalog still count
// toward weekday durations but add no genres, countries or actors.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/movierec/internal/catalog"
)

// TopActorsLimit caps Report.TopActors.
const TopActorsLimit = 10

// actorRole is the person role counted in TopActors.
const actorRole = "actor"

// NameValue is a labelled count.
type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// WeekdayDuration is the summed watch duration for one day of the week.
type WeekdayDuration struct {
	Weekday  string  `json:"weekday"`
	Duration float64 `json:"duration"`
}

// Report is the analytics response. Lists are never nil.
type Report struct {
	Genres       []NameValue       `json:"genres"`
	Countries    []NameValue       `json:"countries"`
	WeekdayViews []WeekdayDuration `json:"weekday_views"`
	TopActors    []NameValue       `json:"top_actors"`
}

// weekdayOrder lists days Monday first.
var weekdayOrder = [...]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Analyze builds the report for userID. Actors seen in fewer than
// minMovies rows are left out. Every listed actor has at least one row, so
// 0 and 1 behave the same.
func Analyze(snap *catalog.Snapshot, userID, minMovies int) Report {
	genres := newCounter()
	countries := newCounter()
	actors := make(map[int]int)
	var weekdays [7]float64
	var seenDay [7]bool

	for _, row := range snap.UserInteractions(userID) {
		if !row.Timestamp.IsZero() {
			day := mondayIndex(row.Timestamp.Weekday())
			weekdays[day] += row.Duration
			seenDay[day] = true
		}

		item, ok := snap.Item(row.ItemID)
		if !ok {
			continue
		}
		for _, id := range item.GenreIDs {
			genres.add(snap.Genres().Resolve(id))
		}
		for _, id := range item.CountryIDs {
			countries.add(snap.Countries().Resolve(id))
		}
		for _, id := range item.PersonIDs {
			if snap.People().HasRole(id, actorRole) {
				actors[id]++
			}
		}
	}

	report := Report{
		Genres:       genres.list(),
		Countries:    countries.list(),
		WeekdayViews: []WeekdayDuration{},
		TopActors:    topActors(snap.People(), actors, minMovies),
	}
	for i, day := range weekdayOrder {
		if seenDay[i] {
			report.WeekdayViews = append(report.WeekdayViews, WeekdayDuration{
				Weekday:  day.String(),
				Duration: weekdays[i],
			})
		}
	}
	return report
}

// mondayIndex maps Monday to 0 and Sunday to 6.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// topActors keeps persons whose count is >= minMovies, sorted by count
// descending, then name, then id, and truncates to TopActorsLimit. Counts
// are per person id; names are attached only for output.
func topActors(people *catalog.Dimension, counts map[int]int, minMovies int) []NameValue {
	type actorCount struct {
		id    int
		name  string
		count int
	}
	kept := make([]actorCount, 0, len(counts))
	for id, n := range counts {
		if n >= minMovies {
			kept = append(kept, actorCount{id: id, name: people.Resolve(id), count: n})
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.count != b.count {
			return a.count > b.count
		}
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c < 0
		}
		return a.id < b.id
	})
	if len(kept) > TopActorsLimit {
		kept = kept[:TopActorsLimit]
	}

	out := make([]NameValue, len(kept))
	for i, a := range kept {
		out[i] = NameValue{Name: a.name, Value: a.count}
	}
	return out
}

// counter counts names in first-seen order.
type counter struct {
	pos    map[string]int
	values []NameValue
}

func newCounter() *counter {
	return &counter{pos: make(map[string]int)}
}

func (c *counter) add(name string) {
	if i, ok := c.pos[name]; ok {
		c.values[i].Value++
		return
	}
	c.pos[name] = len(c.values)
	c.values = append(c.values, NameValue{Name: name, Value: 1})
}

func (c *counter) list() []NameValue {
	if c.values == nil {
		return []NameValue{}
	}
	return c.values
}
