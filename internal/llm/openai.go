package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// DefaultOpenAIModel is used when no model is configured
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider calls the OpenAI Responses API
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAI creates an OpenAI provider. baseURL may be empty to use the public endpoint.
func NewOpenAI(apiKey, baseURL, model string, logger *slog.Logger) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("openai: API key is empty")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAIProvider{
		client: &client,
		model:  model,
		logger: logger,
	}, nil
}

// ChatCompletion sends the conversation and returns the model's output text as a single choice
func (p *OpenAIProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	items := make([]responses.ResponseInputItemUnionParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		items = append(items, responses.ResponseInputItemParamOfMessage(m.Content, openAIRole(m.Role)))
	}

	params := responses.ResponseNewParams{
		Model: model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: items,
		},
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        req.Schema.Name,
					Schema:      req.Schema.Definition,
					Strict:      openai.Bool(true),
					Description: openai.String(req.Schema.Description),
					Type:        "json_schema",
				},
			},
		}
	}

	start := time.Now()
	resp, err := p.client.Responses.New(ctx, params)
	if err != nil {
		p.logger.Debug("openai request failed", "model", model, "error", err)
		return nil, fmt.Errorf("openai: %w", err)
	}

	content := resp.OutputText()
	p.logger.Debug("openai response received",
		"model", model,
		"chars", len(content),
		"duration", time.Since(start),
	)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	return &ChatResponse{
		Model:   model,
		Choices: []Choice{{Message: Message{Role: RoleAssistant, Content: content}}},
	}, nil
}

func openAIRole(role string) responses.EasyInputMessageRole {
	switch role {
	case RoleSystem:
		return responses.EasyInputMessageRoleDeveloper
	case RoleAssistant:
		return responses.EasyInputMessageRoleAssistant
	default:
		return responses.EasyInputMessageRoleUser
	}
}
