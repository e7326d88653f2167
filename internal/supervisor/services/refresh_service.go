// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/logging"
)

// SnapshotLoader rebuilds and publishes the catalog snapshot.
// Satisfied by *catalog.Store.
type SnapshotLoader interface {
	Load(ctx context.Context) (*catalog.Snapshot, error)
}

// defaultLoadTimeout bounds one reload when none is configured.
const defaultLoadTimeout = 10 * time.Minute

// RefreshService reloads the catalog snapshot on a fixed interval. A failed
// reload is logged and the previous snapshot stays active.
type RefreshService struct {
	loader      SnapshotLoader
	interval    time.Duration
	loadTimeout time.Duration
	logger      zerolog.Logger
}

// NewRefreshService creates a refresh service. interval must be positive.
// A non-positive loadTimeout uses the default.
func NewRefreshService(loader SnapshotLoader, interval, loadTimeout time.Duration) *RefreshService {
	if loadTimeout <= 0 {
		loadTimeout = defaultLoadTimeout
	}
	return &RefreshService{
		loader:      loader,
		interval:    interval,
		loadTimeout: loadTimeout,
		logger:      logging.WithComponent("refresh"),
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Warn().Msg("Snapshot refresh disabled, interval not positive")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info().Dur("interval", s.interval).Msg("Snapshot refresh running")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *RefreshService) refresh(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	start := time.Now()
	snap, err := s.loader.Load(loadCtx)
	if err != nil {
		// Store.Load already logged the cause
		s.logger.Warn().Err(err).Msg("Scheduled snapshot refresh failed, keeping previous snapshot")
		return
	}
	s.logger.Debug().
		Uint64("version", snap.Version()).
		Dur("duration", time.Since(start)).
		Msg("Scheduled snapshot refresh complete")
}

// String names the service in supervisor events.
func (s *RefreshService) String() string {
	return "snapshot-refresh"
}
