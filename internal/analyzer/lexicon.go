package analyzer

import (
	"math"
	"sort"

	"github.com/jonreiter/govader"
	"gonum.org/v1/gonum/stat"

	"github.com/zombar/sentimentanalyzer/internal/models"
)

// Polarity is the raw output of a lexicon scorer
type Polarity struct {
	Compound float64
	Positive float64
	Negative float64
	Neutral  float64
}

// Lexicon scores text polarity without calling any external service
type Lexicon interface {
	PolarityScores(text string) Polarity
}

// VaderLexicon scores text with the VADER rule-based lexicon
type VaderLexicon struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderLexicon creates a VADER scorer
func NewVaderLexicon() *VaderLexicon {
	return &VaderLexicon{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// PolarityScores returns VADER compound and proportion scores for text
func (v *VaderLexicon) PolarityScores(text string) Polarity {
	s := v.analyzer.PolarityScores(text)
	return Polarity{
		Compound: s.Compound,
		Positive: s.Positive,
		Negative: s.Negative,
		Neutral:  s.Neutral,
	}
}

// Categorize maps a compound score to a sentiment category.
// Bands are half-open except neutral, which is closed on both ends.
func Categorize(compound float64) string {
	switch {
	case compound < -0.6:
		return models.CategoryVeryNegative
	case compound < -0.2:
		return models.CategoryNegative
	case compound <= 0.2:
		return models.CategoryNeutral
	case compound <= 0.6:
		return models.CategoryPositive
	default:
		return models.CategoryVeryPositive
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}

func newSentimentScore(p Polarity) models.SentimentScore {
	compound := clamp(p.Compound, -1, 1)
	return models.SentimentScore{
		Compound:  compound,
		Positive:  clamp(p.Positive, 0, 1),
		Negative:  clamp(p.Negative, 0, 1),
		Neutral:   clamp(p.Neutral, 0, 1),
		Category:  Categorize(compound),
		Intensity: math.Abs(compound),
	}
}

// lexiconStats are per-word aggregates reported in result metadata
type lexiconStats struct {
	significant int
	mean        float64
	stdDev      float64
}

// scoreLexicon scores the whole normalized text and each token independently
func (a *Analyzer) scoreLexicon(normalized string, tokens []string) (models.SentimentScore, models.WordAnalysis, lexiconStats) {
	var overall models.SentimentScore
	if normalized == "" {
		overall = newSentimentScore(Polarity{})
	} else {
		overall = newSentimentScore(a.lexicon.PolarityScores(normalized))
	}

	words := make([]models.WordSentiment, 0, len(tokens))
	compounds := make([]float64, 0, len(tokens))
	for i, token := range tokens {
		score := newSentimentScore(a.lexicon.PolarityScores(token))
		words = append(words, models.WordSentiment{
			Word:            token,
			Language:        wordLanguage(token),
			Position:        i,
			Sentiment:       score,
			EmotionalWeight: score.Intensity,
			Source:          models.SourceVader,
		})
		compounds = append(compounds, score.Compound)
	}

	distribution := buildDistribution(words)
	analysis := models.WordAnalysis{
		Words:              words,
		Distribution:       distribution,
		Percentages:        computePercentages(distribution),
		MostEmotionalWords: mostEmotionalWords(words, a.cfg.EmotionalWordThreshold, a.cfg.MaxEmotionalWords),
	}

	stats := lexiconStats{
		significant: len(significantWords(words, a.cfg.SignificanceThreshold)),
	}
	if len(compounds) > 0 {
		stats.mean = stat.Mean(compounds, nil)
	}
	if len(compounds) > 1 {
		stats.stdDev = stat.StdDev(compounds, nil)
	}

	return overall, analysis, stats
}

// buildDistribution counts words per category in a single pass
func buildDistribution(words []models.WordSentiment) models.Distribution {
	var d models.Distribution
	for _, w := range words {
		switch w.Sentiment.Category {
		case models.CategoryVeryNegative:
			d.VeryNegative++
		case models.CategoryNegative:
			d.Negative++
		case models.CategoryNeutral:
			d.Neutral++
		case models.CategoryPositive:
			d.Positive++
		case models.CategoryVeryPositive:
			d.VeryPositive++
		}
	}
	return d
}

// computePercentages converts counts into count/total*100 rounded to two decimals.
// Each category is rounded on its own, so the total can drift from 100 by a few hundredths.
func computePercentages(d models.Distribution) models.Percentages {
	total := d.Total()
	if total == 0 {
		return models.Percentages{}
	}

	pct := func(category string) float64 {
		return math.Round(float64(d.Count(category))*10000/float64(total)) / 100
	}
	return models.Percentages{
		VeryNegative: pct(models.CategoryVeryNegative),
		Negative:     pct(models.CategoryNegative),
		Neutral:      pct(models.CategoryNeutral),
		Positive:     pct(models.CategoryPositive),
		VeryPositive: pct(models.CategoryVeryPositive),
	}
}

// mostEmotionalWords returns up to limit words with |compound| above threshold, strongest first
func mostEmotionalWords(words []models.WordSentiment, threshold float64, limit int) []models.WordSentiment {
	out := make([]models.WordSentiment, 0, len(words))
	for _, w := range words {
		if w.Sentiment.Intensity > threshold {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sentiment.Intensity > out[j].Sentiment.Intensity
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// significantWords returns words with |compound| at or above threshold
func significantWords(words []models.WordSentiment, threshold float64) []models.WordSentiment {
	out := make([]models.WordSentiment, 0, len(words))
	for _, w := range words {
		if w.Sentiment.Intensity >= threshold {
			out = append(out, w)
		}
	}
	return out
}
