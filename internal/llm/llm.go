// Package llm provides a provider-agnostic chat-completion client used by the
// sentiment pipeline for translation, word analysis, and interpretation.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Known providers
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

var (
	// ErrUnknownProvider is returned when a request names a provider that is not registered
	ErrUnknownProvider = errors.New("llm: unknown provider")
	// ErrEmptyResponse is returned when the model produced no content
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Message is a single chat turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Schema constrains the model output to a JSON document
type Schema struct {
	Name        string
	Description string
	Definition  map[string]interface{}
}

// ChatRequest is a chat-completion request
type ChatRequest struct {
	Provider    string
	Model       string
	Messages    []Message
	Schema      *Schema
	Temperature float64 // zero leaves the provider default
}

// Choice is one completion alternative
type Choice struct {
	Message Message `json:"message"`
}

// ChatResponse is a chat-completion response
type ChatResponse struct {
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
}

// Content returns the trimmed content of the first choice
func (r *ChatResponse) Content() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Choices[0].Message.Content)
}

// ChatCompleter performs chat completions
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Registry routes requests to a provider by name
type Registry struct {
	mu              sync.RWMutex
	providers       map[string]ChatCompleter
	defaultProvider string
}

// NewRegistry creates an empty registry. The first registered provider becomes the default.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]ChatCompleter)}
}

// Register adds or replaces a provider
func (r *Registry) Register(name string, provider ChatCompleter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(strings.TrimSpace(name))
	r.providers[name] = provider
	if r.defaultProvider == "" {
		r.defaultProvider = name
	}
}

// SetDefault selects the provider used when a request does not name one
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	r.defaultProvider = name
	return nil
}

// Default returns the name of the default provider
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultProvider
}

// ChatCompletion forwards the request to the named or default provider
func (r *Registry) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	r.mu.RLock()
	name := strings.ToLower(strings.TrimSpace(req.Provider))
	if name == "" {
		name = r.defaultProvider
	}
	provider, ok := r.providers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return provider.ChatCompletion(ctx, req)
}
