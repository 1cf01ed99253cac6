package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zombar/sentimentanalyzer/internal/llm"
	"github.com/zombar/sentimentanalyzer/internal/models"
)

const branchInterpretation = "interpretation"

var interpretationSchema = llm.GenerateSchema[models.LLMInterpretation]()

// interpret asks the model for a structured interpretation of the lexicon result and fuses
// it with the lexicon score. Failures produce a lexicon-derived fallback; it never returns nil.
func (a *Analyzer) interpret(ctx context.Context, result *models.AnalysisResult) *models.InterpretationOutcome {
	ctx, span := a.tracer.Start(ctx, "sentiment.llm_interpretation")
	defer span.End()

	start := time.Now()
	raw, err := a.requestInterpretation(ctx, result)

	var parsed models.LLMInterpretation
	if err == nil {
		if decodeErr := llm.DecodeJSON(raw, &parsed); decodeErr != nil {
			err = fmt.Errorf("%w: %v", ErrRemoteParse, decodeErr)
		} else {
			err = validateInterpretation(&parsed)
		}
	}

	elapsed := time.Since(start)
	if err != nil {
		reason := fallbackReason(err)
		a.metrics.ObserveRemoteCall(branchInterpretation, reason, elapsed)
		a.metrics.RecordFallback(branchInterpretation, reason)
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		a.logger.Warn("llm interpretation failed, using lexicon interpretation",
			"reason", reason,
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)

		confidence, alignment := Fuse(result.Overall, nil)
		return &models.InterpretationOutcome{
			Status:     models.InterpretationInvalid,
			Fallback:   fallbackInterpretation(result),
			Raw:        raw,
			Reason:     err.Error(),
			Source:     models.SourceFallbackVaderOnly,
			Alignment:  alignment,
			Confidence: confidence,
		}
	}

	a.metrics.ObserveRemoteCall(branchInterpretation, "success", elapsed)
	confidence, alignment := Fuse(result.Overall, &parsed)
	span.SetAttributes(
		attribute.Float64("interpretation.confidence", confidence),
		attribute.String("interpretation.alignment", alignment.OverallAlignment),
	)
	a.logger.Debug("llm interpretation complete",
		"confidence", confidence,
		"alignment", alignment.OverallAlignment,
		"duration_ms", elapsed.Milliseconds(),
	)

	return &models.InterpretationOutcome{
		Status:         models.InterpretationValid,
		Interpretation: &parsed,
		Source:         models.SourceLLM,
		Alignment:      alignment,
		Confidence:     confidence,
	}
}

func (a *Analyzer) requestInterpretation(ctx context.Context, result *models.AnalysisResult) (string, error) {
	prompt, err := buildInterpretationPrompt(result)
	if err != nil {
		return "", err
	}

	return callWithTimeout(ctx, a.cfg.InterpretationTimeout, func(ctx context.Context) (string, error) {
		resp, err := a.llm.ChatCompletion(ctx, llm.ChatRequest{
			Provider: a.cfg.Provider,
			Model:    a.cfg.Model,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: interpretationSystemPrompt},
				{Role: llm.RoleUser, Content: prompt},
			},
			Schema: &llm.Schema{
				Name:        "SentimentInterpretation",
				Description: "Structured psychological interpretation of a sentiment analysis",
				Definition:  interpretationSchema,
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

// validateInterpretation requires all five sections and normalizes scalar fields in place
func validateInterpretation(i *models.LLMInterpretation) error {
	var missing []string
	if i.Interpretation == nil {
		missing = append(missing, "interpretation")
	}
	if i.Analytics == nil {
		missing = append(missing, "analytics")
	}
	if i.Insights == nil {
		missing = append(missing, "insights")
	}
	if i.Validation == nil {
		missing = append(missing, "validation")
	}
	if i.ClinicalNotes == nil {
		missing = append(missing, "clinical_notes")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing sections: %s", ErrRemoteParse, strings.Join(missing, ", "))
	}
	if strings.TrimSpace(i.Interpretation.EmotionalState) == "" {
		return fmt.Errorf("%w: interpretation.emotional_state is empty", ErrRemoteParse)
	}

	v := i.Validation
	v.VaderAlignment = strings.ToLower(strings.TrimSpace(v.VaderAlignment))
	v.SentimentCategory = strings.ToLower(strings.TrimSpace(v.SentimentCategory))
	v.ConfidenceLevel = clamp(v.ConfidenceLevel, 0, 1)
	v.SentimentScore = clamp(v.SentimentScore, -1, 1)

	i.Interpretation.PrimaryEmotions = nonNil(i.Interpretation.PrimaryEmotions)
	i.Analytics.KeyEmotionalDrivers = nonNil(i.Analytics.KeyEmotionalDrivers)
	i.Insights.PsychologicalIndicators = nonNil(i.Insights.PsychologicalIndicators)
	i.Insights.RiskFactors = nonNil(i.Insights.RiskFactors)
	i.Insights.ProtectiveFactors = nonNil(i.Insights.ProtectiveFactors)
	i.Insights.CopingIndicators = nonNil(i.Insights.CopingIndicators)
	v.Discrepancies = nonNil(v.Discrepancies)
	i.ClinicalNotes.Observations = nonNil(i.ClinicalNotes.Observations)
	i.ClinicalNotes.FollowUpSuggestions = nonNil(i.ClinicalNotes.FollowUpSuggestions)
	i.ClinicalNotes.UrgencyLevel = strings.ToLower(strings.TrimSpace(i.ClinicalNotes.UrgencyLevel))
	return nil
}

// fallbackInterpretation derives an interpretation from lexicon statistics only
func fallbackInterpretation(result *models.AnalysisResult) *models.FallbackInterpretation {
	overall := result.Overall
	d := result.WordAnalysis.Distribution

	indicators := make([]string, 0, 5)
	if d.VeryNegative > 0 {
		indicators = append(indicators, "strong negative language detected")
	}
	if d.Negative > 0 {
		indicators = append(indicators, "negative language present")
	}
	if d.VeryPositive > 0 {
		indicators = append(indicators, "strong positive language detected")
	}
	if d.Positive > 0 {
		indicators = append(indicators, "positive language present")
	}
	if len(indicators) == 0 {
		indicators = append(indicators, "predominantly neutral language")
	}
	if result.Translation.WasTranslated {
		indicators = append(indicators, "scored after translation from tagalog")
	}

	return &models.FallbackInterpretation{
		EmotionalState:     emotionalStateLabel(overall.Category, overall.Intensity),
		EmotionalIntensity: overall.Intensity,
		Category:           overall.Category,
		Indicators:         indicators,
		Source:             models.SourceFallbackVaderOnly,
	}
}

func emotionalStateLabel(category string, intensity float64) string {
	level := "low"
	switch {
	case intensity >= 0.6:
		level = "high"
	case intensity >= 0.3:
		level = "moderate"
	}
	return fmt.Sprintf("%s with %s intensity", strings.ReplaceAll(category, "_", " "), level)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
