// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package summarize

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movierec/internal/breaker"
	"github.com/tomtom215/movierec/internal/catalog"
	"github.com/tomtom215/movierec/internal/config"
)

type staticSnapshots struct {
	snap *catalog.Snapshot
}

func (s staticSnapshots) Snapshot() (*catalog.Snapshot, error) {
	return s.snap, nil
}

func testSnapshot() staticSnapshots {
	items := []catalog.Item{
		{ID: 1, Name: "The Matrix", Reviews: []catalog.Review{
			{Author: "neo", Text: "great"},
			{Text: "  "},
			{Text: "mind-bending"},
			{Text: "too long"},
		}},
		{ID: 2, Name: "Heat"},
	}
	return staticSnapshots{snap: catalog.NewSnapshot(items, nil, nil, nil, nil)}
}

type fakeCompleter struct {
	calls  atomic.Int32
	prompt atomic.Value
	err    error
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string) (string, error) {
	f.calls.Add(1)
	f.prompt.Store(user)
	if f.err != nil {
		return "", f.err
	}
	return "viewers loved it", nil
}

func newCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache("", time.Hour)
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	return cache
}

func TestService_Summarize(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{}
	svc := New(testSnapshot(), completer, newCache(t), Options{Model: "test-model", MaxReviews: 2})
	defer func() { _ = svc.Close() }()
	ctx := context.Background()

	summary, err := svc.Summarize(ctx, 1)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != "viewers loved it" {
		t.Errorf("expected summary, got %q", summary)
	}
	prompt, _ := completer.prompt.Load().(string)
	if !strings.Contains(prompt, "The Matrix") || !strings.Contains(prompt, "2. mind-bending") {
		t.Errorf("expected movie name and numbered reviews in prompt, got %q", prompt)
	}
	if strings.Contains(prompt, "too long") {
		t.Errorf("expected prompt capped at 2 reviews, got %q", prompt)
	}

	again, err := svc.Summarize(ctx, 1)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if again != summary {
		t.Errorf("expected cached summary %q, got %q", summary, again)
	}
	if calls := completer.calls.Load(); calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}
}

func TestService_SummarizeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		completer Completer
		movieID   int
		wantErr   error
	}{
		{"disabled", nil, 1, ErrDisabled},
		{"unknown movie", &fakeCompleter{}, 99, ErrNotFound},
		{"no reviews", &fakeCompleter{}, 2, ErrNoReviews},
		{"upstream failure", &fakeCompleter{err: errors.New("503 from provider")}, 1, ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := New(testSnapshot(), tt.completer, nil, Options{})
			_, err := svc.Summarize(context.Background(), tt.movieID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestService_NoSnapshot(t *testing.T) {
	t.Parallel()

	store := catalog.NewStore(catalog.NewMemorySource(), catalog.LoadOptions{})
	svc := New(store, &fakeCompleter{}, nil, Options{})
	if _, err := svc.Summarize(context.Background(), 1); !errors.Is(err, catalog.ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestNewFromConfig_Disabled(t *testing.T) {
	t.Parallel()

	for _, cfg := range []config.SummarizeConfig{
		{Enabled: false, APIKey: "key"},
		{Enabled: true},
	} {
		svc, err := NewFromConfig(cfg, testSnapshot())
		if err != nil {
			t.Fatalf("NewFromConfig() error = %v", err)
		}
		if svc.Enabled() {
			t.Errorf("expected disabled service for %+v", cfg)
		}
		if err := svc.Close(); err != nil {
			t.Errorf("expected clean close, got %v", err)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	item := catalog.Item{Name: "Heat", Reviews: []catalog.Review{{Text: "a"}, {Text: ""}, {Text: "b"}}}
	prompt, ok := buildPrompt(item, 0)
	if !ok || !strings.Contains(prompt, "1. a") || !strings.Contains(prompt, "2. b") {
		t.Errorf("expected both reviews, got %q (%v)", prompt, ok)
	}
	if _, ok := buildPrompt(catalog.Item{Reviews: []catalog.Review{{Text: " "}}}, 0); ok {
		t.Error("expected blank reviews to count as none")
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	a := cacheKey(1, "m1", "prompt")
	if a != cacheKey(1, "m1", "prompt") {
		t.Error("expected stable key")
	}
	if a == cacheKey(1, "m2", "prompt") || a == cacheKey(1, "m1", "other") || a == cacheKey(2, "m1", "prompt") {
		t.Error("expected key to change with movie, model and prompt")
	}
}

func TestCache_Persists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cache, err := OpenCache(dir, 0)
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	if err := cache.Put("k", "summary text", "m"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenCache(dir, 0)
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, ok, err := reopened.Get("k")
	if err != nil || !ok || got != "summary text" {
		t.Errorf("expected persisted summary, got %q %v %v", got, ok, err)
	}
	if _, ok, _ := reopened.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	t.Parallel()

	seen := make(chan [2]string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		var req struct {
			Model string `json:"model"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		seen <- [2]string{req.Model, r.Header.Get("Authorization")}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"test-model",` +
			`"choices":[{"index":0,"message":{"role":"assistant","content":"  short summary  "},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL+"/v1/", "test-model", time.Second, breaker.Settings{})
	out, err := client.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "short summary" {
		t.Errorf("expected trimmed content, got %q", out)
	}
	got := <-seen
	if got[0] != "test-model" || got[1] != "Bearer sk-test" {
		t.Errorf("expected model and bearer token, got %q %q", got[0], got[1])
	}
}

func TestOpenAIClient_UpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL, "m", time.Second, breaker.Settings{})
	svc := New(testSnapshot(), client, nil, Options{})
	if _, err := svc.Summarize(context.Background(), 1); !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestResultLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{ErrDisabled, "disabled"},
		{ErrNotFound, "not_found"},
		{ErrNoReviews, "not_found"},
		{errors.Join(ErrUpstream, errors.New("x")), "upstream_error"},
		{errors.New("other"), "error"},
	}
	for _, tt := range tests {
		if got := resultLabel(tt.err); got != tt.want {
			t.Errorf("resultLabel(%v): expected %s, got %s", tt.err, tt.want, got)
		}
	}
}
