// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package catalog

import (
	"context"
	"testing"
)

const testImage = "https://example.com/default.jpg"

// fixtureSource is a small catalog:
//
//	1 Matrix (1999-05-01)  genres Action,SciFi  country USA    staff Keanu(actor), Lana(director)
//	2 Amelie (2001)        genres Comedy        country France staff Audrey(actor)
//	3 Heat   ("n/a")       genres Action,99     country USA    staff Keanu(actor)
//	4 Matrix Reloaded (2003) genres SciFi       no country     no staff
func fixtureSource() *MemorySource {
	return NewMemorySource().
		Set(TableMovies,
			Record{"id": "1", "name": "The Matrix", "year": "1999-05-01", "genres": "[1, 2]", "countries": "[10]",
				"staff": "[100, 101]", "reviews": `[{"text":"great"}]`, "link": "https://img/1.jpg"},
			Record{"id": "2", "name": "Amelie", "year": "2001", "genres": "['3']", "countries": "(11,)",
				"staff": "[102]", "reviews": "not json"},
			Record{"id": "3", "name": "Heat", "year": "n/a", "genres": "[1, 99]", "countries": "[10]", "staff": "[100]"},
			Record{"id": "4", "name": "Matrix Reloaded", "year": "2003", "genres": "[2]"},
			Record{"id": "oops", "name": "Broken"},
		).
		Set(TableGenres,
			Record{"id": "1", "name": "Action"},
			Record{"id": "2", "name": "SciFi"},
			Record{"id": "3", "name": "Comedy"},
		).
		Set(TableCountries,
			Record{"id": "10", "name": "USA"},
			Record{"id": "11", "name": "France"},
		).
		Set(TablePeople,
			Record{"id": "100", "name": "Keanu", "role": "actor"},
			Record{"id": "101", "name": "Lana", "role": "director"},
			Record{"id": "102", "name": "Audrey", "role": "Actor"},
		).
		Set(TableLogs,
			Record{"user_id": "1", "movie_id": "1", "datetime": "2024-03-04 20:00:00", "duration": "100"},
			Record{"user_id": "1", "movie_id": "3", "datetime": "2024-03-05 20:00:00", "duration": "50"},
			Record{"user_id": "1", "movie_id": "1", "datetime": "2024-03-11 20:00:00", "duration": "30"},
			Record{"user_id": "2", "movie_id": "2", "datetime": "2024-03-06 20:00:00", "duration": "200"},
			Record{"user_id": "2", "movie_id": "42", "datetime": "2024-03-06 21:00:00", "duration": "500"},
			Record{"user_id": "x", "movie_id": "2", "datetime": "2024-03-06 20:00:00", "duration": "1"},
		)
}

func fixtureSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := Build(context.Background(), fixtureSource(), LoadOptions{DefaultImage: testImage})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return snap
}
