// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/movierec/internal/models"
)

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of data or model state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, models.HealthStatus{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK once a catalog snapshot is loaded and 503 before that.
// A missing model does not block readiness; popularity ranking still works.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	health := models.HealthStatus{
		Status:   "ready",
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Seconds(),
		Snapshot: h.snapshotStatus(),
		Model:    h.modelStatus(),
		Features: map[string]bool{
			"personalized": h.recommender != nil && h.recommender.Model() != nil,
			"summarize":    h.summarizer != nil && h.summarizer.Enabled(),
		},
	}

	status := http.StatusOK
	if !health.Snapshot.Loaded {
		health.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	respondSuccess(w, r, status, health)
}

func (h *Handler) snapshotStatus() *models.SnapshotStatus {
	snap, err := h.snapshots.Snapshot()
	if err != nil {
		return &models.SnapshotStatus{Loaded: false}
	}
	loadedAt := snap.LoadedAt()
	return &models.SnapshotStatus{
		Loaded:       true,
		Version:      snap.Version(),
		LoadedAt:     &loadedAt,
		Items:        snap.Len(),
		Interactions: snap.InteractionCount(),
	}
}

func (h *Handler) modelStatus() *models.ModelStatus {
	if h.recommender == nil || h.recommender.Model() == nil {
		return &models.ModelStatus{Loaded: false}
	}
	model := h.recommender.Model()
	meta := model.Metadata()
	status := &models.ModelStatus{
		Loaded:  true,
		Name:    meta.Name,
		Version: meta.Version,
		Scorer:  model.ScorerKind(),
		Users:   model.Mapper().NumUsers(),
		Items:   model.Mapper().NumItems(),
	}
	if !meta.TrainedAt.IsZero() {
		trainedAt := meta.TrainedAt
		status.TrainedAt = &trainedAt
	}
	return status
}
