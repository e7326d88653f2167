// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import "fmt"

// Mapper translates between catalog ids and a model's dense indices.
// It is immutable after construction.
type Mapper struct {
	userIndex map[int]int
	itemIndex map[int]int
	itemIDs   []int
}

// NewMapper indexes the external ids of a trained model. Position i in
// itemIDs is item index i. Duplicate ids are rejected.
func NewMapper(userIDs, itemIDs []int) (*Mapper, error) {
	m := &Mapper{
		userIndex: make(map[int]int, len(userIDs)),
		itemIndex: make(map[int]int, len(itemIDs)),
		itemIDs:   append([]int(nil), itemIDs...),
	}
	for idx, id := range userIDs {
		if _, dup := m.userIndex[id]; dup {
			return nil, fmt.Errorf("duplicate user id %d in model mapping", id)
		}
		m.userIndex[id] = idx
	}
	for idx, id := range itemIDs {
		if _, dup := m.itemIndex[id]; dup {
			return nil, fmt.Errorf("duplicate item id %d in model mapping", id)
		}
		m.itemIndex[id] = idx
	}
	return m, nil
}

// UserIndex returns the model row for a user. A miss means the user was
// not part of training.
func (m *Mapper) UserIndex(userID int) (int, bool) {
	idx, ok := m.userIndex[userID]
	return idx, ok
}

// ItemIndex returns the model row for an item.
func (m *Mapper) ItemIndex(itemID int) (int, bool) {
	idx, ok := m.itemIndex[itemID]
	return idx, ok
}

// ItemID returns the catalog id for an index in [0, NumItems()).
func (m *Mapper) ItemID(index int) int {
	return m.itemIDs[index]
}

// NumItems returns the size of the trained item space.
func (m *Mapper) NumItems() int {
	return len(m.itemIDs)
}

// NumUsers returns the number of trained users.
func (m *Mapper) NumUsers() int {
	return len(m.userIndex)
}
