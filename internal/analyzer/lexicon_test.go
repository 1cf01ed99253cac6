package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/sentimentanalyzer/internal/models"
)

func TestCategorizeBoundaries(t *testing.T) {
	tests := []struct {
		compound float64
		expected string
	}{
		{-1.0, models.CategoryVeryNegative},
		{-0.61, models.CategoryVeryNegative},
		{-0.6, models.CategoryNegative},
		{-0.21, models.CategoryNegative},
		{-0.2, models.CategoryNeutral},
		{0.0, models.CategoryNeutral},
		{0.2, models.CategoryNeutral},
		{0.21, models.CategoryPositive},
		{0.6, models.CategoryPositive},
		{0.61, models.CategoryVeryPositive},
		{1.0, models.CategoryVeryPositive},
	}

	for _, tt := range tests {
		if got := Categorize(tt.compound); got != tt.expected {
			t.Errorf("Categorize(%v) = %s, want %s", tt.compound, got, tt.expected)
		}
	}
}

func TestNewSentimentScoreClamps(t *testing.T) {
	s := newSentimentScore(Polarity{Compound: -1.4, Positive: -0.1, Negative: 1.2, Neutral: math.NaN()})

	assert.Equal(t, -1.0, s.Compound)
	assert.Equal(t, 1.0, s.Intensity)
	assert.Equal(t, 0.0, s.Positive)
	assert.Equal(t, 1.0, s.Negative)
	assert.Equal(t, 0.0, s.Neutral)
	assert.Equal(t, models.CategoryVeryNegative, s.Category)
}

// sumTolerance allows one hundredth of rounding drift plus float error
const sumTolerance = 0.01 + 1e-9

func TestComputePercentages(t *testing.T) {
	tests := []struct {
		name     string
		dist     models.Distribution
		expected models.Percentages
	}{
		{
			name:     "empty",
			dist:     models.Distribution{},
			expected: models.Percentages{},
		},
		{
			name:     "single category",
			dist:     models.Distribution{Neutral: 4},
			expected: models.Percentages{Neutral: 100},
		},
		{
			name:     "thirds round each category down",
			dist:     models.Distribution{VeryNegative: 1, Neutral: 1, Positive: 1},
			expected: models.Percentages{VeryNegative: 33.33, Neutral: 33.33, Positive: 33.33},
		},
		{
			name:     "sevenths",
			dist:     models.Distribution{VeryNegative: 1, Neutral: 5, VeryPositive: 1},
			expected: models.Percentages{VeryNegative: 14.29, Neutral: 71.43, VeryPositive: 14.29},
		},
		{
			name:     "even split",
			dist:     models.Distribution{Negative: 2, Positive: 2},
			expected: models.Percentages{Negative: 50, Positive: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computePercentages(tt.dist)
			assert.InDelta(t, tt.expected.VeryNegative, got.VeryNegative, 1e-9)
			assert.InDelta(t, tt.expected.Negative, got.Negative, 1e-9)
			assert.InDelta(t, tt.expected.Neutral, got.Neutral, 1e-9)
			assert.InDelta(t, tt.expected.Positive, got.Positive, 1e-9)
			assert.InDelta(t, tt.expected.VeryPositive, got.VeryPositive, 1e-9)

			if tt.dist.Total() > 0 {
				assert.InDelta(t, 100.0, got.Sum(), sumTolerance)
			} else {
				assert.Equal(t, 0.0, got.Sum())
			}
		})
	}
}

func TestComputePercentagesAlwaysSumToHundred(t *testing.T) {
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			for c := 0; c < 7; c++ {
				d := models.Distribution{VeryNegative: a, Neutral: c, Positive: b, VeryPositive: (a + c) % 3}
				got := computePercentages(d)
				if d.Total() == 0 {
					assert.Equal(t, models.Percentages{}, got)
					continue
				}
				assert.InDelta(t, 100.0, got.Sum(), sumTolerance, "distribution %+v", d)
			}
		}
	}
}

func TestMostEmotionalWords(t *testing.T) {
	word := func(w string, c float64) models.WordSentiment {
		return models.WordSentiment{Word: w, Sentiment: newSentimentScore(Polarity{Compound: c})}
	}
	words := []models.WordSentiment{
		word("okay", 0.3), // not strictly above the threshold
		word("sad", -0.5),
		word("love", 0.64),
		word("hate", -0.57),
		word("awful", -0.46),
		word("great", 0.62),
		word("bad", -0.54),
		word("the", 0),
	}

	got := mostEmotionalWords(words, DefaultEmotionalWordThreshold, DefaultMaxEmotionalWords)
	require.Len(t, got, 5)

	var order []string
	for _, w := range got {
		order = append(order, w.Word)
	}
	assert.Equal(t, []string{"love", "great", "hate", "bad", "sad"}, order)
}

func TestScoreLexiconWithVader(t *testing.T) {
	a := newTestAnalyzer(t, DefaultConfig())

	normalized, err := NormalizeText("I am very happy and grateful today")
	require.NoError(t, err)
	tokens := Tokenize(normalized)

	overall, words, stats := a.scoreLexicon(normalized, tokens)

	assert.Contains(t, []string{models.CategoryPositive, models.CategoryVeryPositive}, overall.Category)
	assert.GreaterOrEqual(t, overall.Compound, -1.0)
	assert.LessOrEqual(t, overall.Compound, 1.0)
	assert.Len(t, words.Words, len(tokens))
	assert.Equal(t, len(tokens), words.Distribution.Total())
	assert.InDelta(t, 100.0, words.Percentages.Sum(), 0.01)
	assert.NotEmpty(t, words.MostEmotionalWords)
	assert.Greater(t, stats.significant, 0)
	assert.Greater(t, stats.mean, 0.0)

	for i, w := range words.Words {
		assert.Equal(t, i, w.Position)
		assert.Equal(t, models.SourceVader, w.Source)
		assert.Equal(t, Categorize(w.Sentiment.Compound), w.Sentiment.Category)
	}
}

func TestScoreLexiconEmptyText(t *testing.T) {
	a := newTestAnalyzer(t, DefaultConfig())

	overall, words, stats := a.scoreLexicon("", nil)

	assert.Equal(t, models.CategoryNeutral, overall.Category)
	assert.Empty(t, words.Words)
	assert.Equal(t, models.Percentages{}, words.Percentages)
	assert.Equal(t, 0.0, stats.mean)
	assert.Equal(t, 0.0, stats.stdDev)
}
