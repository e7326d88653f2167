// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package storage

import (
	"encoding/gob"
	"fmt"
)

// FactorModelState is a trained matrix factorization model.
//
// Position is the internal index: UserIDs[u] is the external id of user
// index u and ItemIDs[i] the external id of item index i. A user's score for
// an item is dot(UserFactors[u], ItemFactors[i]) + UserBias[u] + ItemBias[i].
// Bias slices may be empty.
type FactorModelState struct {
	UserIDs     []int
	ItemIDs     []int
	UserFactors [][]float32
	ItemFactors [][]float32
	UserBias    []float32
	ItemBias    []float32
}

// Validate checks that the state is internally consistent: factor and bias
// shapes match the mappings and the mappings hold no duplicate ids.
func (m *FactorModelState) Validate() error {
	if len(m.UserFactors) != len(m.UserIDs) {
		return fmt.Errorf("user factors: %d rows for %d users", len(m.UserFactors), len(m.UserIDs))
	}
	if len(m.ItemFactors) != len(m.ItemIDs) {
		return fmt.Errorf("item factors: %d rows for %d items", len(m.ItemFactors), len(m.ItemIDs))
	}
	if len(m.UserBias) != 0 && len(m.UserBias) != len(m.UserIDs) {
		return fmt.Errorf("user bias: %d values for %d users", len(m.UserBias), len(m.UserIDs))
	}
	if len(m.ItemBias) != 0 && len(m.ItemBias) != len(m.ItemIDs) {
		return fmt.Errorf("item bias: %d values for %d items", len(m.ItemBias), len(m.ItemIDs))
	}

	dim := m.Factors()
	for u, row := range m.UserFactors {
		if len(row) != dim {
			return fmt.Errorf("user %d has %d factors, want %d", u, len(row), dim)
		}
	}
	for i, row := range m.ItemFactors {
		if len(row) != dim {
			return fmt.Errorf("item %d has %d factors, want %d", i, len(row), dim)
		}
	}

	return m.ValidateMapping()
}

// ValidateMapping checks only the id mappings. A mapping-only artifact,
// used when scores come from a remote service, passes this but not Validate.
func (m *FactorModelState) ValidateMapping() error {
	if err := checkUnique("user", m.UserIDs); err != nil {
		return err
	}
	return checkUnique("item", m.ItemIDs)
}

// Factors returns the latent dimension.
func (m *FactorModelState) Factors() int {
	switch {
	case len(m.ItemFactors) > 0:
		return len(m.ItemFactors[0])
	case len(m.UserFactors) > 0:
		return len(m.UserFactors[0])
	default:
		return 0
	}
}

func checkUnique(kind string, ids []int) error {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate %s id %d", kind, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(FactorModelState{})
	gob.Register(ModelMetadata{})
}
