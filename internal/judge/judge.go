// Copyright 2026 MIRI Project. All rights reserved.

// Package judge wraps the generative judgment capability behind a single
// narrow text-in/text-out interface, so the rest of the pipeline can be
// tested against a deterministic stub returning canned JSON.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/Mun09/miri-back/internal/httputil"
	"github.com/Mun09/miri-back/pkg/types"
)

// Service is the opaque judgment capability. Implementations return
// best-effort text that callers attempt to parse as JSON. On any internal
// failure an implementation should return the empty-object placeholder
// "{}" rather than an error, so every caller's parse step has a uniform
// failure mode; the only error worth returning is context cancellation.
type Service interface {
	Judge(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// EmptyResponse is the placeholder returned when the service fails.
const EmptyResponse = "{}"

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// backoffBase controls the base duration for rate-limit backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// OpenAIBackend calls an OpenAI-compatible chat-completions endpoint.
type OpenAIBackend struct {
	cfg   types.AIConfig
	httpc *http.Client
	sem   *semaphore.Weighted
	log   *zap.Logger
}

// NewOpenAI builds a backend from config, applying defaults for unset
// fields. A nil logger disables logging.
func NewOpenAI(cfg types.AIConfig, log *zap.Logger) *OpenAIBackend {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIURL
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 3
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenAIBackend{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 90 * time.Second},
		sem:   semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		log:   log,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Judge sends one chat-completion request. Rate-limited calls are retried
// with exponential backoff (base 1s, doubling) up to the configured retry
// budget; any other failure is logged and degraded to EmptyResponse.
func (b *OpenAIBackend) Judge(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	if err := b.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer b.sem.Release(1)

	body, err := json.Marshal(chatRequest{
		Model: b.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		b.log.Warn("judge: marshaling request", zap.Error(err))
		return EmptyResponse, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		b.log.Warn("judge: building request", zap.Error(err))
		return EmptyResponse, nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)

	resp, err := httputil.DoWithRetry(ctx, b.httpc, req, b.cfg.MaxRetries, backoffBase)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		b.log.Warn("judge: request failed", zap.Error(err))
		return EmptyResponse, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		b.log.Warn("judge: unexpected status",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", msg))
		return EmptyResponse, nil
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		b.log.Warn("judge: decoding response", zap.Error(err))
		return EmptyResponse, nil
	}
	if len(parsed.Choices) == 0 {
		return EmptyResponse, nil
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
