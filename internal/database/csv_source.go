// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/metrics"
)

// CSVSource implements catalog.Source over CSV files with a header row.
type CSVSource struct {
	db    *DB
	files map[catalog.Table]string
}

// NewCSVSource maps each table to a CSV path.
func NewCSVSource(db *DB, files map[catalog.Table]string) *CSVSource {
	return &CSVSource{db: db, files: files}
}

// TableFiles resolves the configured file for every catalog table.
func TableFiles(cfg config.DataConfig) map[catalog.Table]string {
	return map[catalog.Table]string{
		catalog.TableMovies:    cfg.Path(cfg.MoviesFile),
		catalog.TableGenres:    cfg.Path(cfg.GenresFile),
		catalog.TableCountries: cfg.Path(cfg.CountriesFile),
		catalog.TablePeople:    cfg.Path(cfg.PeopleFile),
		catalog.TableLogs:      cfg.Path(cfg.LogsFile),
	}
}

// ReadTable scans the table's file and returns one Record per row keyed by
// lower-cased header name. NULL cells are left out of the record.
func (s *CSVSource) ReadTable(ctx context.Context, table catalog.Table) (rows []catalog.Record, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("read_csv", string(table), time.Since(start), err)
	}()

	path, ok := s.files[table]
	if !ok || path == "" {
		return nil, fmt.Errorf("no file configured for table %s", table)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return nil, fmt.Errorf("stat %s: %w", path, statErr)
	}

	query := fmt.Sprintf("SELECT * FROM read_csv(%s, header = true, all_varchar = true, delim = ',', quote = '\"', escape = '\"')", quoteLiteral(path))
	result, err := s.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read_csv %s: %w", path, err)
	}
	defer closeWithLog(result, "rows")

	return scanRecords(result)
}

func scanRecords(result *sql.Rows) ([]catalog.Record, error) {
	columns, err := result.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = strings.ToLower(strings.TrimSpace(c))
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	var records []catalog.Record
	for result.Next() {
		if err := result.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec := make(catalog.Record, len(columns))
		for i, v := range values {
			if v.Valid {
				rec[names[i]] = v.String
			}
		}
		records = append(records, rec)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return records, nil
}

// quoteLiteral renders s as a SQL string literal. read_csv takes its path
// as a table function argument, which cannot be a bound parameter.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
