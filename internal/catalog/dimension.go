// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package catalog

import (
	"strconv"
	"strings"
)

// Dimension is a read-only id to name lookup for genres, countries or people.
type Dimension struct {
	kind  Kind
	names map[int]string
	roles map[int]string
}

// NewDimension indexes rows by id. The first row for an id wins.
func NewDimension(kind Kind, rows []DimensionRow) *Dimension {
	d := &Dimension{
		kind:  kind,
		names: make(map[int]string, len(rows)),
		roles: make(map[int]string),
	}
	for _, row := range rows {
		if _, dup := d.names[row.ID]; dup {
			continue
		}
		d.names[row.ID] = row.Name
		if row.Role != "" {
			d.roles[row.ID] = row.Role
		}
	}
	return d
}

// Kind returns the dimension kind.
func (d *Dimension) Kind() Kind {
	return d.kind
}

// Len returns the number of distinct ids.
func (d *Dimension) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Resolve returns the display name for id, or the id itself as a string
// when the row is missing. It is total and safe on a nil Dimension.
func (d *Dimension) Resolve(id int) string {
	if d != nil {
		if name, ok := d.names[id]; ok {
			return name
		}
	}
	return strconv.Itoa(id)
}

// ResolveAll maps ids to display names in order.
func (d *Dimension) ResolveAll(ids []int) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = d.Resolve(id)
	}
	return names
}

// Role returns the person's role, or "" when unknown.
func (d *Dimension) Role(id int) string {
	if d == nil {
		return ""
	}
	return d.roles[id]
}

// HasRole reports whether id has the given role, ignoring case.
func (d *Dimension) HasRole(id int, role string) bool {
	return strings.EqualFold(d.Role(id), role)
}
