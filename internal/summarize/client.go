// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package summarize

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/movierec/internal/breaker"
)

// Completer turns a system and user prompt into a completion.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIClient is a Completer for any OpenAI-compatible chat API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	cb     *gobreaker.CircuitBreaker[string]
}

// NewOpenAIClient creates a client. baseURL may be empty for the public
// OpenAI endpoint.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration, settings breaker.Settings) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		cb:     breaker.New[string]("llm-summarize", settings),
	}
}

// Model returns the chat model name.
func (c *OpenAIClient) Model() string { return c.model }

// Complete sends one chat completion request.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	return c.cb.Execute(func() (string, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("completion returned no choices")
		}
		content := strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			return "", errors.New("completion returned empty content")
		}
		return content, nil
	})
}
