package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	maxResponseBytes = 1 << 20
	detailExcerpt    = 512
)

// HTTPCaller talks to OpenAI-compatible chat completion endpoints.
type HTTPCaller struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPCaller builds a caller whose per-call timeout is enforced by the
// client. A nil client gets one with the given timeout.
func NewHTTPCaller(client *http.Client, timeout time.Duration, logger *slog.Logger) *HTTPCaller {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPCaller{client: client, logger: logger}
}

func (c *HTTPCaller) Complete(ctx context.Context, p Provider, req Request) (string, error) {
	payload, err := json.Marshal(openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := strings.TrimRight(p.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &ProviderError{Provider: p.Name, Class: ClassNetwork, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)

	c.logger.Debug("calling provider", slog.String("provider", p.Name), slog.String("model", p.Model), slog.String("endpoint", endpoint))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("provider transport error", slog.String("provider", p.Name), slog.Any("error", err))
		return "", &ProviderError{Provider: p.Name, Class: ClassNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &ProviderError{Provider: p.Name, Class: ClassNetwork, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		class := ClassifyStatus(resp.StatusCode)
		c.logger.Warn("provider non-2xx",
			slog.String("provider", p.Name),
			slog.Int("status", resp.StatusCode),
			slog.String("class", string(class)),
			slog.String("body", excerpt(body)),
		)
		return "", &ProviderError{Provider: p.Name, Class: class, StatusCode: resp.StatusCode, Detail: excerpt(body)}
	}

	text, err := Normalize(body)
	if err != nil {
		if pe, ok := err.(*ProviderError); ok {
			pe.Provider = p.Name
			pe.StatusCode = resp.StatusCode
			c.logger.Warn("provider response had no usable content",
				slog.String("provider", p.Name),
				slog.String("detail", pe.Detail),
				slog.String("body", excerpt(body)),
			)
		}
		return "", err
	}
	return text, nil
}

func excerpt(body []byte) string {
	if len(body) > detailExcerpt {
		body = body[:detailExcerpt]
	}
	return strings.TrimSpace(string(body))
}
