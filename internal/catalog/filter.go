// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package catalog

import (
	"sort"
	"strings"
)

// Query holds catalog listing filters. Empty filters match everything.
type Query struct {
	Search    string
	Years     []int
	Countries []string
	Genres    []string
	Page      int
	PerPage   int
}

// Page is one page of ListMovies results.
type Page struct {
	Movies     []MovieView `json:"movies"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	TotalPages int         `json:"total_pages"`
}

// Options lists the values the catalog can be filtered by.
type Options struct {
	Years     []int    `json:"years"`
	Countries []string `json:"countries"`
	Genres    []string `json:"genres"`
}

// ListMovies filters the catalog and returns the requested page in catalog
// order. Page and PerPage below 1 are treated as 1.
func ListMovies(s *Snapshot, q Query) Page {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 1
	}

	m := newMatcher(q)
	matched := make([]int, 0)
	for i := range s.items {
		if m.match(s, &s.items[i]) {
			matched = append(matched, i)
		}
	}

	total := len(matched)
	result := Page{
		Movies:     []MovieView{},
		Total:      total,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: (total + q.PerPage - 1) / q.PerPage,
	}

	start := (q.Page - 1) * q.PerPage
	if start >= total {
		return result
	}
	end := start + q.PerPage
	if end > total {
		end = total
	}
	result.Movies = make([]MovieView, 0, end-start)
	for _, pos := range matched[start:end] {
		result.Movies = append(result.Movies, s.View(s.items[pos]))
	}
	return result
}

type matcher struct {
	search    string
	years     map[int]struct{}
	countries map[string]struct{}
	genres    map[string]struct{}
}

func newMatcher(q Query) matcher {
	m := matcher{search: strings.ToLower(strings.TrimSpace(q.Search))}
	if len(q.Years) > 0 {
		m.years = make(map[int]struct{}, len(q.Years))
		for _, y := range q.Years {
			m.years[y] = struct{}{}
		}
	}
	m.countries = lowerSet(q.Countries)
	m.genres = lowerSet(q.Genres)
	return m
}

func lowerSet(values []string) map[string]struct{} {
	var set map[string]struct{}
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(values))
		}
		set[v] = struct{}{}
	}
	return set
}

func (m matcher) match(s *Snapshot, item *Item) bool {
	if m.search != "" && !strings.Contains(strings.ToLower(item.Name), m.search) {
		return false
	}
	if m.years != nil {
		if _, ok := m.years[item.Year]; !ok {
			return false
		}
	}
	if m.countries != nil && !anyResolved(s.countries, item.CountryIDs, m.countries) {
		return false
	}
	if m.genres != nil && !anyResolved(s.genres, item.GenreIDs, m.genres) {
		return false
	}
	return true
}

func anyResolved(d *Dimension, ids []int, want map[string]struct{}) bool {
	for _, id := range ids {
		if _, ok := want[strings.ToLower(d.Resolve(id))]; ok {
			return true
		}
	}
	return false
}

// FilterOptions returns the sorted unique years, countries and genres found
// on catalog items. Unknown years (0) are left out.
func FilterOptions(s *Snapshot) Options {
	years := make(map[int]struct{})
	countries := make(map[string]struct{})
	genres := make(map[string]struct{})

	for i := range s.items {
		item := &s.items[i]
		if item.Year > 0 {
			years[item.Year] = struct{}{}
		}
		for _, id := range item.CountryIDs {
			countries[s.countries.Resolve(id)] = struct{}{}
		}
		for _, id := range item.GenreIDs {
			genres[s.genres.Resolve(id)] = struct{}{}
		}
	}

	opts := Options{
		Years:     make([]int, 0, len(years)),
		Countries: sortedKeys(countries),
		Genres:    sortedKeys(genres),
	}
	for y := range years {
		opts.Years = append(opts.Years, y)
	}
	sort.Ints(opts.Years)
	return opts
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// History returns the user's distinct watched movies in first-watch order.
// Movies no longer in the catalog are dropped.
func History(s *Snapshot, userID int) []MovieView {
	ids := s.WatchedItemIDs(userID)
	out := make([]MovieView, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.Item(id); ok {
			out = append(out, s.View(item))
		}
	}
	return out
}
