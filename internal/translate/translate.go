// Package translate provides the translation collaborator used by the analyzer for
// Tagalog messages.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zombar/sentimentanalyzer/internal/llm"
)

// ErrUnsupportedLanguage is returned for language codes the translator has no name for
var ErrUnsupportedLanguage = errors.New("unsupported language")

var languageNames = map[string]string{
	"en":  "English",
	"tl":  "Tagalog",
	"fil": "Filipino",
}

const systemPrompt = `You are a professional translator for short chat messages.
Translate the user's message faithfully, keeping its tone and emotional meaning.
Return only the translation, with no quotes, notes or explanations.`

// LLMTranslator translates text by prompting a chat model
type LLMTranslator struct {
	client   llm.ChatCompleter
	provider string
	model    string
	logger   *slog.Logger
}

// NewLLMTranslator creates a translator. Empty provider and model use the client's defaults.
func NewLLMTranslator(client llm.ChatCompleter, provider, model string, logger *slog.Logger) *LLMTranslator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMTranslator{
		client:   client,
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// Translate translates text between the given ISO 639-1 codes
func (t *LLMTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	fromName, ok := languageNames[strings.ToLower(from)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, from)
	}
	toName, ok := languageNames[strings.ToLower(to)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, to)
	}

	resp, err := t.client.ChatCompletion(ctx, llm.ChatRequest{
		Provider: t.provider,
		Model:    t.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf("Translate from %s to %s:\n\n%s", fromName, toName, text)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}

	translated := cleanTranslation(resp.Content())
	if translated == "" {
		return "", llm.ErrEmptyResponse
	}

	t.logger.Debug("message translated",
		"from", from,
		"to", to,
		"input_length", len(text),
		"output_length", len(translated),
	)
	return translated, nil
}

// cleanTranslation strips wrapping quotes and a leading label some models add
func cleanTranslation(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ":"); i > 0 && i < 20 {
		label := strings.ToLower(s[:i])
		if label == "translation" || label == "english" {
			s = strings.TrimSpace(s[i+1:])
		}
	}
	for _, pair := range [][2]string{{`"`, `"`}, {"'", "'"}, {"“", "”"}} {
		open, closing := pair[0], pair[1]
		if len(s) >= len(open)+len(closing) && strings.HasPrefix(s, open) && strings.HasSuffix(s, closing) {
			s = strings.TrimSpace(s[len(open) : len(s)-len(closing)])
		}
	}
	return s
}
