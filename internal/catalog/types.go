// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package catalog

import (
	"errors"
	"time"
)

// ErrDataUnavailable is returned when a source table cannot be read.
var ErrDataUnavailable = errors.New("catalog data unavailable")

// Table names a source table.
type Table string

const (
	TableMovies    Table = "movies"
	TableGenres    Table = "genres"
	TableCountries Table = "countries"
	TablePeople    Table = "people"
	TableLogs      Table = "logs"
)

// Kind names a dimension table.
type Kind string

const (
	KindGenre   Kind = "genre"
	KindCountry Kind = "country"
	KindPerson  Kind = "person"
)

// Table returns the source table backing the dimension.
func (k Kind) Table() Table {
	switch k {
	case KindGenre:
		return TableGenres
	case KindCountry:
		return TableCountries
	default:
		return TablePeople
	}
}

// Record is one raw table row keyed by column name. Missing and NULL cells
// are absent or empty.
type Record map[string]string

// Review is a single user review attached to an item.
type Review struct {
	Author string `json:"author,omitempty"`
	Text   string `json:"text"`
}

// Item is a normalized catalog entry. Id lists reference dimension rows.
type Item struct {
	ID          int
	Name        string
	Description string
	Year        int
	GenreIDs    []int
	CountryIDs  []int
	PersonIDs   []int
	Link        string
	Reviews     []Review
}

// DimensionRow is a genre, country or person. Role is set for people only.
type DimensionRow struct {
	ID   int
	Name string
	Role string
}

// Interaction is one row of the watch log. Repeats of the same
// (user, item) pair are expected.
type Interaction struct {
	UserID    int
	ItemID    int
	Timestamp time.Time
	Duration  float64
}

// LoadOptions controls item normalization.
type LoadOptions struct {
	// DefaultImage replaces an empty link.
	DefaultImage string
}
