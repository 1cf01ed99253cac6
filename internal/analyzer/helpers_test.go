package analyzer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zombar/sentimentanalyzer/internal/llm"
)

const validWordAnalysisJSON = `{
  "wordAnalysis": [
    {"word": "malungkot", "language": "Tagalog", "position": 0, "sentiment": {"compound": -0.7, "category": "negative"}, "translation": "sad", "emotional_weight": 0.8},
    {"word": "ako", "language": "tagalog", "position": 1, "sentiment": {"compound": 0.05, "category": "neutral"}, "translation": "I", "emotional_weight": 0.1},
    {"word": "happy", "language": "english", "position": 2, "sentiment": {"compound": 1.7, "category": "positive"}, "translation": "", "emotional_weight": 0}
  ],
  "metadata": {"total_words": 3, "dominant_language": "tagalog"}
}`

const validInterpretationJSON = `{
  "interpretation": {"emotional_state": "low mood", "primary_emotions": ["sadness"], "emotional_intensity": "moderate", "context_summary": "The user reports feeling down."},
  "analytics": {"sentiment_trend": "negative", "word_pattern_analysis": "single negative driver", "language_mix_effect": "none", "key_emotional_drivers": ["sad"]},
  "insights": {"psychological_indicators": ["low mood"], "risk_factors": [], "protective_factors": ["reaching out"], "coping_indicators": []},
  "validation": {"vader_alignment": " High ", "confidence_level": 0.8, "sentiment_category": "Negative", "sentiment_score": -0.5, "discrepancies": ["none noted"]},
  "clinical_notes": {"observations": ["expressed sadness"], "recommended_approach": "active listening", "follow_up_suggestions": [], "urgency_level": "Low"}
}`

// fakeCompleter answers word-analysis and interpretation requests independently
type fakeCompleter struct {
	mu             sync.Mutex
	words          func(ctx context.Context) (string, error)
	interpretation func(ctx context.Context) (string, error)
	requests       []llm.ChatRequest
}

func (f *fakeCompleter) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	handler := f.interpretation
	if req.Schema != nil && req.Schema.Name == "WordAnalysis" {
		handler = f.words
	}
	if handler == nil {
		return nil, io.ErrUnexpectedEOF
	}

	content, err := handler(ctx)
	if err != nil {
		return nil, err
	}
	return &llm.ChatResponse{Choices: []llm.Choice{{Message: llm.Message{Role: llm.RoleAssistant, Content: content}}}}, nil
}

func (f *fakeCompleter) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func respondWith(content string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return content, nil }
}

func failWith(err error) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return "", err }
}

// stubLexicon scores known words and panics on a marker token
type stubLexicon struct {
	scores  map[string]float64
	panicOn string
}

func (s stubLexicon) PolarityScores(text string) Polarity {
	if s.panicOn != "" && strings.Contains(text, s.panicOn) {
		panic("lexicon exploded")
	}
	var compound float64
	for _, word := range strings.Fields(text) {
		compound += s.scores[word]
	}
	compound = clamp(compound, -1, 1)
	return Polarity{
		Compound: compound,
		Positive: clamp(compound, 0, 1),
		Negative: clamp(-compound, 0, 1),
		Neutral:  1 - clamp(compound, -1, 1)*clamp(compound, -1, 1),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAnalyzer(t *testing.T, cfg Config, opts ...Option) *Analyzer {
	t.Helper()
	a, err := New(cfg, append([]Option{WithLogger(discardLogger())}, opts...)...)
	require.NoError(t, err)
	return a
}

func allOptions() Options {
	return Options{EnableTranslation: true, EnableLLM: true, EnableLLMWordAnalysis: true}
}

func decodeFixture(raw string, v any) error {
	return llm.DecodeJSON(raw, v)
}
