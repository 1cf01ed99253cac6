package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/zombar/sentimentanalyzer/internal/models"
)

const (
	lexiconWeight    = 0.3
	llmWeight        = 0.5
	alignmentWeight  = 0.2
	neutralAlignment = 0.5

	// scoreDeviationNote is the lexicon/model score gap worth calling out in notes
	scoreDeviationNote = 0.5
)

// MapAlignmentToScore converts a model alignment rating to a score.
// Unknown or empty ratings map to 0.5.
func MapAlignmentToScore(alignment string) float64 {
	switch strings.ToLower(strings.TrimSpace(alignment)) {
	case "high":
		return 0.9
	case "medium":
		return 0.6
	case "low":
		return 0.3
	default:
		return neutralAlignment
	}
}

// alignmentBucket turns an alignment score back into a rating
func alignmentBucket(score float64) string {
	switch {
	case score > 0.7:
		return "high"
	case score > 0.4:
		return "medium"
	default:
		return "low"
	}
}

// Fuse combines the lexicon score with the model's self-assessment into a confidence
// and an alignment verdict. Without a validation section both degrade to neutral defaults.
func Fuse(overall models.SentimentScore, interpretation *models.LLMInterpretation) (float64, models.AlignmentAssessment) {
	if interpretation == nil || interpretation.Validation == nil {
		return neutralAlignment, models.AlignmentAssessment{
			LLMAlignmentRating: models.AlignmentUnknown,
			OverallAlignment:   models.AlignmentUnknown,
			ConfidenceDelta:    neutralAlignment - overall.Intensity,
			Notes:              []string{"model validation unavailable"},
		}
	}

	v := interpretation.Validation
	alignment := MapAlignmentToScore(v.VaderAlignment)
	confidence := lexiconWeight*math.Abs(overall.Compound) +
		llmWeight*clamp(v.ConfidenceLevel, 0, 1) +
		alignmentWeight*alignment
	confidence = clamp(confidence, 0, 1)

	llmCategory := strings.ToLower(strings.TrimSpace(v.SentimentCategory))
	deviation := math.Abs(overall.Compound - clamp(v.SentimentScore, -1, 1))

	notes := make([]string, 0, len(v.Discrepancies)+2)
	if llmCategory != overall.Category {
		notes = append(notes, fmt.Sprintf("category mismatch: lexicon %s, model %s", overall.Category, llmCategory))
	}
	if deviation > scoreDeviationNote {
		notes = append(notes, fmt.Sprintf("large score deviation: %.2f", deviation))
	}
	for _, d := range v.Discrepancies {
		if d = strings.TrimSpace(d); d != "" {
			notes = append(notes, d)
		}
	}

	rating := strings.ToLower(strings.TrimSpace(v.VaderAlignment))
	if rating == "" {
		rating = models.AlignmentUnknown
	}

	return confidence, models.AlignmentAssessment{
		CategoryMatch:      llmCategory == overall.Category,
		LLMAlignmentRating: rating,
		ScoreDeviation:     deviation,
		OverallAlignment:   alignmentBucket(alignment),
		ConfidenceDelta:    confidence - overall.Intensity,
		Notes:              notes,
	}
}
