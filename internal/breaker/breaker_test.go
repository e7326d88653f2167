// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/movierec/internal/metrics"
)

func TestNew_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	name := "test-opens"
	cb := New[int](name, Settings{MinRequests: 2, FailureRatio: 0.5, Timeout: time.Hour})
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if _, err := cb.Execute(func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", StateName(cb.State()))
	}

	_, err := cb.Execute(func() (int, error) { return 1, nil })
	if !IsRejection(err) {
		t.Errorf("expected rejection, got %v", err)
	}
	if IsRejection(boom) {
		t.Error("expected plain error not to be a rejection")
	}

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues(name)); got != 2 {
		t.Errorf("expected state gauge 2, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerTransitions.WithLabelValues(name, "closed", "open")); got != 1 {
		t.Errorf("expected 1 closed->open transition, got %v", got)
	}
}

func TestNew_StaysClosedBelowMinimum(t *testing.T) {
	t.Parallel()

	cb := New[int]("test-closed", Settings{MinRequests: 5})
	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (int, error) { return 0, errors.New("fail") })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected closed breaker, got %s", StateName(cb.State()))
	}
}

func TestSettings_WithDefaults(t *testing.T) {
	t.Parallel()

	got := Settings{Timeout: time.Second}.withDefaults()
	want := Defaults()
	want.Timeout = time.Second
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestStateMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state gobreaker.State
		value float64
		name  string
	}{
		{gobreaker.StateClosed, 0, "closed"},
		{gobreaker.StateHalfOpen, 1, "half-open"},
		{gobreaker.StateOpen, 2, "open"},
		{gobreaker.State(42), -1, "unknown"},
	}
	for _, tt := range tests {
		if got := StateValue(tt.state); got != tt.value {
			t.Errorf("StateValue(%d): expected %v, got %v", tt.state, tt.value, got)
		}
		if got := StateName(tt.state); got != tt.name {
			t.Errorf("StateName(%d): expected %s, got %s", tt.state, tt.name, got)
		}
	}
}
