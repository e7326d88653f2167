// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package catalog is the entity store for Movierec.

It normalizes the raw tables (movies, genres, countries, people and the
interaction log) read from a Source into an immutable Snapshot, and serves
the read-only catalog operations built on top of it.

# Normalization

Every table row arrives as a Record of column name to raw string. Loading
never fails on a single bad field:

  - list columns (genres, countries, staff) go through DecodeIDs
  - reviews go through DecodeList, then are re-encoded as canonical JSON
  - years go through NormalizeYear ("1999-05-01" is 1999, garbage is 0)
  - a missing link is replaced by the configured default image

Rows that cannot be keyed (no parseable id) are skipped. A table that cannot
be read at all fails the load with ErrDataUnavailable.

# Decoding

DecodeList tries strict JSON first, then a permissive literal form that
accepts single-quoted strings, tuples and None/True/False, and finally
returns an Empty result. Callers inspect Decoded.Status instead of handling
errors for ordinary dirty data.

# Snapshots

Store publishes snapshots through an atomic pointer. Readers call
Store.Snapshot once per request and keep using that value; a reload swaps the
whole snapshot and never mutates one in place.

# Operations

  - ListMovies: search, year, country and genre filters with pagination
  - FilterOptions: sorted unique filter values
  - History: a user's distinct watched movies
  - Snapshot.Popular: global popularity ranking by summed duration
*/
package catalog
