// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package models

import (
	"time"
)

// APIResponse is the error envelope.
//
// Status field values:
//   - "error": Request failed, see Error field for details
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries the response time and the request id for tracing.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable code plus a human-readable message.
//
// Codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - NOT_FOUND: Resource doesn't exist
//   - SERVICE_UNAVAILABLE: Data, model or feature not available
//   - UPSTREAM_ERROR: A dependency failed
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - INTERNAL_ERROR: Anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the liveness and readiness probes.
type HealthStatus struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime_seconds"`

	// Readiness detail, omitted from the liveness probe.
	Snapshot *SnapshotStatus `json:"snapshot,omitempty"`
	Model    *ModelStatus    `json:"model,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

// SnapshotStatus describes the active catalog snapshot.
type SnapshotStatus struct {
	Loaded       bool       `json:"loaded"`
	Version      uint64     `json:"version,omitempty"`
	LoadedAt     *time.Time `json:"loaded_at,omitempty"`
	Items        int        `json:"items"`
	Interactions int        `json:"interactions"`
}

// ModelStatus describes the loaded recommendation model.
type ModelStatus struct {
	Loaded    bool       `json:"loaded"`
	Name      string     `json:"name,omitempty"`
	Version   int        `json:"version,omitempty"`
	Scorer    string     `json:"scorer,omitempty"`
	TrainedAt *time.Time `json:"trained_at,omitempty"`
	Users     int        `json:"users"`
	Items     int        `json:"items"`
}
