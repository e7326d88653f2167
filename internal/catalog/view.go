// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package catalog

// MovieView is the display form of an item: dimension ids are resolved to
// names and reviews are canonical JSON text.
type MovieView struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	Countries   []string `json:"country"`
	Actors      []string `json:"actors"`
	Link        string   `json:"link"`
	Reviews     string   `json:"reviews"`
}

// View resolves an item against the snapshot's dimensions. Actors lists
// every credited person regardless of role.
func (s *Snapshot) View(item Item) MovieView {
	return MovieView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Year:        item.Year,
		Genres:      s.genres.ResolveAll(item.GenreIDs),
		Countries:   s.countries.ResolveAll(item.CountryIDs),
		Actors:      s.people.ResolveAll(item.PersonIDs),
		Link:        item.Link,
		Reviews:     EncodeReviews(item.Reviews),
	}
}

// Views resolves items in order. The result is never nil.
func (s *Snapshot) Views(items []Item) []MovieView {
	out := make([]MovieView, len(items))
	for i := range items {
		out[i] = s.View(items[i])
	}
	return out
}
