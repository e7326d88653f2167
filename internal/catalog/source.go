// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tomtom215/movierec/internal/logging"
)

// Source reads raw table rows. Implementations must return an error when
// the table itself cannot be read; bad cells are the loader's concern.
type Source interface {
	ReadTable(ctx context.Context, table Table) ([]Record, error)
}

// MemorySource is an in-memory Source for tests and fixtures.
type MemorySource struct {
	mu     sync.RWMutex
	tables map[Table][]Record
	errs   map[Table]error
}

// NewMemorySource creates an empty MemorySource. Unset tables read as
// ErrDataUnavailable.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		tables: make(map[Table][]Record),
		errs:   make(map[Table]error),
	}
}

// Set replaces a table's rows.
func (m *MemorySource) Set(table Table, rows ...Record) *MemorySource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = rows
	delete(m.errs, table)
	return m
}

// Fail makes reads of table return err.
func (m *MemorySource) Fail(table Table, err error) *MemorySource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[table] = err
	return m
}

// ReadTable implements Source.
func (m *MemorySource) ReadTable(ctx context.Context, table Table) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.errs[table]; err != nil {
		return nil, err
	}
	rows, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %s not found", table)
	}
	out := make([]Record, len(rows))
	copy(out, rows)
	return out, nil
}

func readTable(ctx context.Context, src Source, table Table) ([]Record, error) {
	rows, err := src.ReadTable(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDataUnavailable, table, err)
	}
	return rows, nil
}

// LoadItems reads and normalizes the movies table. Rows without a parseable
// id, and repeats of an id already seen, are skipped.
func LoadItems(ctx context.Context, src Source, opts LoadOptions) ([]Item, error) {
	rows, err := readTable(ctx, src, TableMovies)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	seen := make(map[int]struct{}, len(rows))
	skipped := 0
	for _, row := range rows {
		item, ok := normalizeItem(row, opts)
		if !ok {
			skipped++
			continue
		}
		if _, dup := seen[item.ID]; dup {
			logging.Debug().Int("movie_id", item.ID).Msg("Duplicate movie id ignored")
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}
	if skipped > 0 {
		logging.Warn().Int("skipped", skipped).Msg("Movies without a valid id were skipped")
	}
	return items, nil
}

func normalizeItem(row Record, opts LoadOptions) (Item, bool) {
	id, ok := parseID(row["id"])
	if !ok {
		return Item{}, false
	}
	link := strings.TrimSpace(row["link"])
	if link == "" {
		link = opts.DefaultImage
	}
	return Item{
		ID:          id,
		Name:        strings.TrimSpace(row["name"]),
		Description: row["description"],
		Year:        NormalizeYear(row["year"]),
		GenreIDs:    DecodeIDs(row["genres"]),
		CountryIDs:  DecodeIDs(row["countries"]),
		PersonIDs:   DecodeIDs(row["staff"]),
		Link:        link,
		Reviews:     DecodeReviews(row["reviews"]),
	}, true
}

// LoadDimension reads one dimension table.
func LoadDimension(ctx context.Context, src Source, kind Kind) (*Dimension, error) {
	rows, err := readTable(ctx, src, kind.Table())
	if err != nil {
		return nil, err
	}

	dimRows := make([]DimensionRow, 0, len(rows))
	for _, row := range rows {
		id, ok := parseID(row["id"])
		if !ok {
			continue
		}
		dimRows = append(dimRows, DimensionRow{
			ID:   id,
			Name: strings.TrimSpace(row["name"]),
			Role: strings.TrimSpace(row["role"]),
		})
	}
	return NewDimension(kind, dimRows), nil
}

// LoadInteractions reads the watch log in file order. Rows without a
// parseable user or movie id are skipped; bad timestamps and durations
// degrade to zero values.
func LoadInteractions(ctx context.Context, src Source) ([]Interaction, error) {
	rows, err := readTable(ctx, src, TableLogs)
	if err != nil {
		return nil, err
	}

	out := make([]Interaction, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		userID, okUser := parseID(row["user_id"])
		itemID, okItem := parseID(row["movie_id"])
		if !okUser || !okItem {
			skipped++
			continue
		}
		out = append(out, Interaction{
			UserID:    userID,
			ItemID:    itemID,
			Timestamp: parseTimestamp(row["datetime"]),
			Duration:  parseDuration(row["duration"]),
		})
	}
	if skipped > 0 {
		logging.Warn().Int("skipped", skipped).Msg("Log rows without valid ids were skipped")
	}
	return out, nil
}
