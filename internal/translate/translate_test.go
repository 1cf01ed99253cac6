package translate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/sentimentanalyzer/internal/llm"
)

type fakeCompleter struct {
	reply string
	err   error
	last  llm.ChatRequest
}

func (f *fakeCompleter) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Choices: []llm.Choice{{Message: llm.Message{Role: llm.RoleAssistant, Content: f.reply}}}}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLLMTranslatorTranslate(t *testing.T) {
	fake := &fakeCompleter{reply: "  I am sad today  "}
	tr := NewLLMTranslator(fake, "ollama", "llama3.2", discardLogger())

	got, err := tr.Translate(context.Background(), "Malungkot ako ngayon", "tl", "en")
	require.NoError(t, err)
	assert.Equal(t, "I am sad today", got)

	assert.Equal(t, "ollama", fake.last.Provider)
	assert.Equal(t, "llama3.2", fake.last.Model)
	require.Len(t, fake.last.Messages, 2)
	assert.Equal(t, llm.RoleSystem, fake.last.Messages[0].Role)
	assert.Contains(t, fake.last.Messages[1].Content, "from Tagalog to English")
	assert.Contains(t, fake.last.Messages[1].Content, "Malungkot ako ngayon")
	assert.Nil(t, fake.last.Schema)
}

func TestLLMTranslatorErrors(t *testing.T) {
	tests := []struct {
		name    string
		fake    *fakeCompleter
		from    string
		wantErr error
	}{
		{name: "unsupported source", fake: &fakeCompleter{reply: "x"}, from: "xx", wantErr: ErrUnsupportedLanguage},
		{name: "empty reply", fake: &fakeCompleter{reply: "  \"\" "}, from: "tl", wantErr: llm.ErrEmptyResponse},
		{name: "remote failure", fake: &fakeCompleter{err: io.ErrUnexpectedEOF}, from: "tl", wantErr: io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewLLMTranslator(tt.fake, "", "", discardLogger())
			_, err := tr.Translate(context.Background(), "kumusta", tt.from, "en")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCleanTranslation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "I am tired", expected: "I am tired"},
		{input: `"I am tired"`, expected: "I am tired"},
		{input: "“I am tired”", expected: "I am tired"},
		{input: "Translation: I am tired", expected: "I am tired"},
		{input: "English: 'I am tired'", expected: "I am tired"},
		{input: "Note: keep this", expected: "Note: keep this"},
		{input: `"`, expected: `"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanTranslation(tt.input))
		})
	}
}

type countingTranslator struct {
	calls int
	err   error
}

func (c *countingTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "translated " + text, nil
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	next := &countingTranslator{err: errors.New("model offline")}
	b := NewBreaker(next, BreakerSettings{ConsecutiveFailures: 3, OpenTimeout: time.Minute}, discardLogger())

	for i := 0; i < 3; i++ {
		_, err := b.Translate(context.Background(), "kumusta", "tl", "en")
		require.Error(t, err)
	}
	assert.True(t, b.IsOpen())
	assert.Equal(t, "open", b.State())

	_, err := b.Translate(context.Background(), "kumusta", "tl", "en")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls, "open breaker does not call through")
}

func TestBreakerHalfOpenRecovers(t *testing.T) {
	next := &countingTranslator{err: errors.New("model offline")}
	b := NewBreaker(next, BreakerSettings{ConsecutiveFailures: 1, OpenTimeout: 20 * time.Millisecond}, discardLogger())

	_, err := b.Translate(context.Background(), "kumusta", "tl", "en")
	require.Error(t, err)
	require.True(t, b.IsOpen())

	next.err = nil
	time.Sleep(40 * time.Millisecond)

	got, err := b.Translate(context.Background(), "kumusta", "tl", "en")
	require.NoError(t, err)
	assert.Equal(t, "translated kumusta", got)
	assert.Equal(t, "closed", b.State())
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	next := &countingTranslator{err: context.Canceled}
	b := NewBreaker(next, BreakerSettings{ConsecutiveFailures: 1}, discardLogger())

	for i := 0; i < 3; i++ {
		_, err := b.Translate(context.Background(), "kumusta", "tl", "en")
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.False(t, b.IsOpen())
	assert.Equal(t, 3, next.calls)
}

func TestBreakerDefaults(t *testing.T) {
	next := &countingTranslator{err: errors.New("down")}
	b := NewBreaker(next, BreakerSettings{}, nil)

	for i := 0; i < DefaultBreakerFailures-1; i++ {
		_, _ = b.Translate(context.Background(), "x", "tl", "en")
	}
	assert.False(t, b.IsOpen())

	_, _ = b.Translate(context.Background(), "x", "tl", "en")
	assert.True(t, b.IsOpen())
}
