package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/ollama/ollama/api"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "gpt-oss:20b"

	// DefaultOllamaTimeout caps a single request when the caller's context has no deadline
	DefaultOllamaTimeout = 2 * time.Minute
)

// OllamaProvider wraps the Ollama chat API
type OllamaProvider struct {
	client *api.Client
	model  string
	logger *slog.Logger
}

// NewOllama creates an Ollama provider
func NewOllama(ollamaURL, model string, logger *slog.Logger) (*OllamaProvider, error) {
	if ollamaURL == "" {
		ollamaURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	baseURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaProvider{
		client: api.NewClient(baseURL, &http.Client{Timeout: DefaultOllamaTimeout}),
		model:  model,
		logger: logger,
	}, nil
}

// ChatCompletion sends the conversation without streaming and returns the full reply
func (p *OllamaProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	messages := make([]api.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, api.Message{Role: m.Role, Content: m.Content})
	}

	chatReq := &api.ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   new(bool), // false
	}
	if req.Schema != nil {
		format, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("encode schema: %w", err)
		}
		chatReq.Format = format
	}
	if req.Temperature > 0 {
		chatReq.Options = map[string]interface{}{"temperature": req.Temperature}
	}

	p.logger.Debug("ollama request", "model", model, "messages", len(messages))
	start := time.Now()

	var content strings.Builder
	err := p.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat failed: %w", err)
	}

	result := strings.TrimSpace(content.String())
	p.logger.Debug("ollama response received",
		"model", model,
		"chars", len(result),
		"duration", time.Since(start),
	)
	if result == "" {
		return nil, ErrEmptyResponse
	}

	return &ChatResponse{
		Model:   model,
		Choices: []Choice{{Message: Message{Role: RoleAssistant, Content: result}}},
	}, nil
}
