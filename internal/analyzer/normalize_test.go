package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "contraction before punctuation", input: "I don't feel good today", expected: "i do not feel good today"},
		{name: "uppercase contraction", input: "I CAN'T sleep!!!", expected: "i cannot sleep"},
		{name: "curly apostrophe", input: "I’m tired and it’s late", expected: "i am tired and it is late"},
		{name: "mixed case contraction", input: "They're fine, Won't worry", expected: "they are fine will not worry"},
		{name: "contraction inside word is untouched", input: "idon't", expected: "idont"},
		{name: "punctuation removed", input: "Hello, world... how are you?", expected: "hello world how are you"},
		{name: "whitespace collapsed", input: "  too   many \n\t spaces  ", expected: "too many spaces"},
		{name: "markdown emphasis", input: "I am **really** _happy_", expected: "i am really happy"},
		{name: "markdown link keeps text", input: "read [this great post](https://example.com/post) now", expected: "read this great post now"},
		{name: "bare url dropped", input: "see https://example.com/a?b=c for more", expected: "see for more"},
		{name: "unicode letters kept", input: "Salamat po! Mahal kita ❤", expected: "salamat po mahal kita"},
		{name: "only punctuation", input: "?!...", expected: ""},
		{name: "angle-bracketed words kept", input: "I feel <sad> and <angry> today", expected: "i feel sad and angry today"},
		{name: "heart emoticon", input: "i <3 you but hate > love", expected: "i 3 you but hate love"},
		{name: "closing tag words kept", input: "so <b>happy</b> now", expected: "so b happy b now"},
		{name: "html entity decoded", input: "tired &amp; sad", expected: "tired sad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeText(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeTextInvalidInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := NormalizeText(input)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %q", input)
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"I don't feel good today",
		"Malungkot ako ngayon, pero okay lang.",
		"We're **so** proud of you!",
		"i do not feel good today",
	}

	for _, input := range inputs {
		once, err := NormalizeText(input)
		require.NoError(t, err)
		if once == "" {
			continue
		}
		twice, err := NormalizeText(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "normalizing %q twice", input)
	}
}

func TestTokenize(t *testing.T) {
	normalized, err := NormalizeText("I don't feel good today")
	require.NoError(t, err)

	assert.Equal(t, []string{"do", "not", "feel", "good", "today"}, Tokenize(normalized))
	assert.Empty(t, Tokenize(""))
	assert.Equal(t, []string{"ok"}, Tokenize("a ok b"))
	assert.Equal(t, []string{"ña"}, Tokenize("ña ñ"), "length counts runes, not bytes")
}
