package analyzer

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zombar/sentimentanalyzer/internal/llm"
	"github.com/zombar/sentimentanalyzer/internal/models"
)

const branchWordAnalysis = "word_analysis"

var wordAnalysisSchema = llm.GenerateSchema[models.LLMWordResponse]()

// analyzeWordsWithLLM asks the model for significant-word sentiment. Any failure yields
// the lexicon's significant words instead; it never returns nil.
func (a *Analyzer) analyzeWordsWithLLM(ctx context.Context, text string, lexicon models.WordAnalysis) *models.WordAnalysisOutcome {
	ctx, span := a.tracer.Start(ctx, "sentiment.llm_word_analysis")
	defer span.End()

	start := time.Now()
	raw, err := a.requestWordAnalysis(ctx, text)

	var outcome *models.WordAnalysisOutcome
	if err == nil {
		var parsed models.LLMWordResponse
		if decodeErr := llm.DecodeJSON(raw, &parsed); decodeErr != nil {
			err = fmt.Errorf("%w: %v", ErrRemoteParse, decodeErr)
		} else {
			outcome, err = a.validateWordAnalysis(parsed)
		}
	}

	elapsed := time.Since(start)
	if err != nil {
		reason := fallbackReason(err)
		a.metrics.ObserveRemoteCall(branchWordAnalysis, reason, elapsed)
		a.metrics.RecordFallback(branchWordAnalysis, reason)
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		a.logger.Warn("llm word analysis failed, using lexicon words",
			"reason", reason,
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)

		fallback := a.fallbackWordAnalysis(lexicon.Words, err)
		fallback.Raw = raw
		return fallback
	}

	a.metrics.ObserveRemoteCall(branchWordAnalysis, "success", elapsed)
	span.SetAttributes(
		attribute.Int("words.count", len(outcome.Words)),
		attribute.String("words.dominant_language", outcome.Metadata.DominantLanguage),
	)
	a.logger.Debug("llm word analysis complete",
		"words", len(outcome.Words),
		"dominant_language", outcome.Metadata.DominantLanguage,
		"duration_ms", elapsed.Milliseconds(),
	)
	return outcome
}

func (a *Analyzer) requestWordAnalysis(ctx context.Context, text string) (string, error) {
	prompt := buildWordAnalysisPrompt(truncateRunes(text, a.cfg.MaxWordAnalysisChars))

	return callWithTimeout(ctx, a.cfg.WordAnalysisTimeout, func(ctx context.Context) (string, error) {
		resp, err := a.llm.ChatCompletion(ctx, llm.ChatRequest{
			Provider: a.cfg.Provider,
			Model:    a.cfg.Model,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: wordAnalysisSystemPrompt},
				{Role: llm.RoleUser, Content: prompt},
			},
			Schema: &llm.Schema{
				Name:        "WordAnalysis",
				Description: "Emotionally significant words with sentiment scores",
				Definition:  wordAnalysisSchema,
			},
			Temperature: a.cfg.Temperature,
		})
		if err != nil {
			return "", err
		}
		content := resp.Content()
		if content == "" {
			return "", fmt.Errorf("%w: %v", ErrRemoteParse, llm.ErrEmptyResponse)
		}
		return content, nil
	})
}

// validateWordAnalysis normalizes model output: scores are clamped, categories recomputed,
// and words below the significance threshold dropped.
func (a *Analyzer) validateWordAnalysis(parsed models.LLMWordResponse) (*models.WordAnalysisOutcome, error) {
	if parsed.WordAnalysis == nil {
		return nil, fmt.Errorf("%w: missing wordAnalysis array", ErrRemoteParse)
	}

	words := make([]models.WordSentiment, 0, len(parsed.WordAnalysis))
	for i, w := range parsed.WordAnalysis {
		word := strings.TrimSpace(w.Word)
		if word == "" {
			continue
		}

		compound := clamp(w.Sentiment.Compound, -1, 1)
		intensity := math.Abs(compound)
		if intensity < a.cfg.SignificanceThreshold {
			continue
		}

		weight := w.EmotionalWeight
		if weight <= 0 || math.IsNaN(weight) {
			weight = intensity
		}

		position := w.Position
		if position < 0 {
			position = i
		}

		words = append(words, models.WordSentiment{
			Word:     word,
			Language: normalizeWordLanguage(w.Language),
			Position: position,
			Sentiment: models.SentimentScore{
				Compound:  compound,
				Positive:  math.Max(compound, 0),
				Negative:  math.Max(-compound, 0),
				Neutral:   0,
				Category:  Categorize(compound),
				Intensity: intensity,
			},
			Translation:     strings.TrimSpace(w.Translation),
			EmotionalWeight: clamp(weight, 0, 1),
			Source:          models.SourceLLM,
		})
	}

	return &models.WordAnalysisOutcome{
		Words: words,
		Metadata: models.WordAnalysisMetadata{
			TotalWords:       len(words),
			DominantLanguage: dominantLanguage(words),
			Source:           models.SourceLLM,
			IsValid:          true,
			Model:            a.cfg.Model,
		},
	}, nil
}

// fallbackWordAnalysis builds the word outcome from lexicon scores alone
func (a *Analyzer) fallbackWordAnalysis(lexiconWords []models.WordSentiment, cause error) *models.WordAnalysisOutcome {
	significant := significantWords(lexiconWords, a.cfg.SignificanceThreshold)
	words := make([]models.WordSentiment, 0, len(significant))
	for _, w := range significant {
		w.Source = models.SourceFallbackVader
		words = append(words, w)
	}

	reason := ""
	if cause != nil {
		reason = cause.Error()
	}

	return &models.WordAnalysisOutcome{
		Words: words,
		Metadata: models.WordAnalysisMetadata{
			TotalWords:       len(words),
			DominantLanguage: dominantLanguage(words),
			Source:           models.SourceFallbackVader,
			IsValid:          false,
			Reason:           reason,
		},
	}
}

func normalizeWordLanguage(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "tagalog", "filipino", "tl", "fil":
		return models.LanguageTagalog
	case "mixed", "taglish":
		return models.LanguageMixed
	default:
		return models.LanguageEnglish
	}
}

// dominantLanguage returns the most frequent language. Ties go to the earlier of
// tagalog, english, mixed, so an empty list reports tagalog.
func dominantLanguage(words []models.WordSentiment) string {
	counts := make(map[string]int, 3)
	for _, w := range words {
		counts[w.Language]++
	}

	dominant := models.LanguageTagalog
	for _, lang := range []string{models.LanguageTagalog, models.LanguageEnglish, models.LanguageMixed} {
		if counts[lang] > counts[dominant] {
			dominant = lang
		}
	}
	return dominant
}
