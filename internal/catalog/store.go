// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
)

// Store owns the current snapshot. Loads are serialized; reads are lock-free.
type Store struct {
	src    Source
	opts   LoadOptions
	logger zerolog.Logger

	loadMu  sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store over src. Call Load before serving.
func NewStore(src Source, opts LoadOptions) *Store {
	return &Store{
		src:    src,
		opts:   opts,
		logger: logging.WithComponent("catalog"),
	}
}

// Load builds a snapshot from the source and publishes it. On failure the
// previous snapshot stays active.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	snap, err := Build(ctx, s.src, s.opts)
	if err != nil {
		metrics.RecordSnapshotLoad(time.Since(start), 0, 0, err)
		s.logger.Error().Err(err).Msg("Snapshot load failed")
		return nil, err
	}

	s.publish(snap)
	metrics.RecordSnapshotLoad(time.Since(start), snap.Len(), snap.InteractionCount(), nil)
	s.logger.Info().
		Uint64("version", snap.Version()).
		Int("items", snap.Len()).
		Int("interactions", snap.InteractionCount()).
		Int("genres", snap.Genres().Len()).
		Int("countries", snap.Countries().Len()).
		Int("people", snap.People().Len()).
		Dur("duration", time.Since(start)).
		Msg("Snapshot loaded")
	return snap, nil
}

// Publish installs a snapshot built outside the source, such as a test
// fixture. It waits for any running Load and swaps through the same path.
func (s *Store) Publish(snap *Snapshot) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	s.publish(snap)
}

// publish swaps the active snapshot. Callers hold loadMu.
func (s *Store) publish(snap *Snapshot) {
	if prev := s.current.Swap(snap); prev != nil {
		s.logger.Debug().
			Uint64("previous", prev.Version()).
			Uint64("version", snap.Version()).
			Msg("Snapshot replaced")
	}
}

// Snapshot returns the active snapshot, or ErrDataUnavailable before the
// first successful load.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrDataUnavailable
	}
	return snap, nil
}

// Ready reports whether a snapshot has been published.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}
