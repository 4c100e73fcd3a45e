// Package openai implements domain.AIClient against an OpenAI-compatible
// chat completions API.
package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hireflow/candidate-assessor/internal/adapter/ai/tokencount"
	"github.com/hireflow/candidate-assessor/internal/adapter/observability"
	"github.com/hireflow/candidate-assessor/internal/config"
	"github.com/hireflow/candidate-assessor/internal/domain"
)

// promptTokenBudget caps the prompt size; transcripts beyond it are
// rejected before any network call.
const promptTokenBudget = 8000

// Client implements domain.AIClient using the chat completions endpoint.
type Client struct {
	cfg     config.Config
	hc      *http.Client
	counter *tokencount.Counter
}

// New constructs a Client with a traced transport and sensible timeouts.
func New(cfg config.Config) *Client {
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "ai.chat " + r.URL.Path
		}))
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 60 * time.Second, Transport: transport},
		counter: tokencount.NewCounter(),
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatJSON calls chat completions in JSON mode and returns the message
// content. Retries with exponential backoff on 429 and 5xx; other 4xx
// statuses fail permanently.
func (c *Client) ChatJSON(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if c.cfg.OpenAIAPIKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY missing", domain.ErrInvalidArgument)
	}

	promptTokens, err := c.counter.CountChatTokens(systemPrompt, userPrompt, c.cfg.ChatModel)
	if err != nil {
		promptTokens = tokencount.EstimateTokens(systemPrompt + userPrompt)
	}
	if promptTokens > promptTokenBudget {
		return "", fmt.Errorf("%w: prompt of %d tokens exceeds budget", domain.ErrInvalidArgument, promptTokens)
	}
	slog.Debug("chat request prepared",
		slog.String("model", c.cfg.ChatModel),
		slog.Int("prompt_tokens", promptTokens))

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:      maxTokens,
		Temperature:    0.2,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("op=ai.chat: %w", err)
	}

	var content string
	start := time.Now()
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.hc.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: chat status 429", domain.ErrRateLimited)
		case resp.StatusCode >= 500:
			return fmt.Errorf("chat status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}
		var parsed chatResponse
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err))
		}
		if len(parsed.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("%w: no choices", domain.ErrSchemaInvalid))
		}
		content = parsed.Choices[0].Message.Content
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	maxElapsed, initial, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	bo.MaxElapsedTime = maxElapsed
	bo.InitialInterval = initial
	bo.MaxInterval = maxInterval
	bo.Multiplier = multiplier

	err = backoff.Retry(op, backoff.WithContext(bo, ctx))
	observability.AIRequestDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.AIRequestsTotal.WithLabelValues("chat", "error").Inc()
		return "", fmt.Errorf("op=ai.chat: %w", err)
	}
	observability.AIRequestsTotal.WithLabelValues("chat", "ok").Inc()
	return content, nil
}
