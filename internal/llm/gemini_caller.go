package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiCaller serves providers of KindGemini through the generative-ai SDK.
// Clients are created lazily and cached per credential.
type GeminiCaller struct {
	mu      sync.Mutex
	clients map[string]*genai.Client
	logger  *slog.Logger
}

func NewGeminiCaller(logger *slog.Logger) *GeminiCaller {
	return &GeminiCaller{
		clients: make(map[string]*genai.Client),
		logger:  logger,
	}
}

func (g *GeminiCaller) Complete(ctx context.Context, p Provider, req Request) (string, error) {
	client, err := g.client(ctx, p)
	if err != nil {
		return "", &ProviderError{Provider: p.Name, Class: ClassAuth, Detail: "client init failed", Err: err}
	}

	model := client.GenerativeModel(p.Model)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		pe := classifyGeminiError(p.Name, err)
		g.logger.Warn("gemini call failed",
			slog.String("provider", p.Name),
			slog.String("class", string(pe.Class)),
			slog.Int("status", pe.StatusCode),
			slog.Any("error", err),
		)
		return "", pe
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", &ProviderError{Provider: p.Name, Class: ClassMalformed, Detail: "no content in response"}
	}
	return text, nil
}

// Close releases every cached client.
func (g *GeminiCaller) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, c := range g.clients {
		_ = c.Close()
		delete(g.clients, key)
	}
}

func (g *GeminiCaller) client(ctx context.Context, p Provider) (*genai.Client, error) {
	key := p.APIKey + "|" + p.BaseURL

	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[key]; ok {
		return c, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(p.APIKey)}
	if p.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(p.BaseURL))
	}
	c, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.clients[key] = c
	return c, nil
}

func classifyGeminiError(provider string, err error) *ProviderError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   provider,
			Class:      ClassifyStatus(apiErr.Code),
			StatusCode: apiErr.Code,
			Detail:     excerpt([]byte(apiErr.Message)),
			Err:        err,
		}
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &ProviderError{Provider: provider, Class: ClassMalformed, Detail: "response blocked", Err: err}
	}
	return &ProviderError{Provider: provider, Class: ClassNetwork, Err: err}
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
