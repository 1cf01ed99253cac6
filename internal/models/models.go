package models

import "time"

// Sentiment categories derived from a compound score
const (
	CategoryVeryNegative = "very_negative"
	CategoryNegative     = "negative"
	CategoryNeutral      = "neutral"
	CategoryPositive     = "positive"
	CategoryVeryPositive = "very_positive"
)

// Categories lists the five sentiment categories from most negative to most positive
var Categories = []string{
	CategoryVeryNegative,
	CategoryNegative,
	CategoryNeutral,
	CategoryPositive,
	CategoryVeryPositive,
}

// Word languages reported by the word-level analyzers
const (
	LanguageEnglish = "english"
	LanguageTagalog = "tagalog"
	LanguageMixed   = "mixed"
)

// Analysis modes reported in the result envelope
const (
	ModeVaderOnly                  = "vader_only"
	ModeVaderWithLLMWords          = "vader_with_llm_words"
	ModeVaderWithLLMInterpretation = "vader_with_llm_interpretation"
	ModeHybridFullLLM              = "hybrid_full_llm"
)

// Result sources
const (
	SourceVader             = "vader"
	SourceLLM               = "llm"
	SourceFallbackVader     = "fallback_vader"
	SourceFallbackVaderOnly = "fallback_vader_only"
	AlignmentUnknown        = "unknown"
	InterpretationValid     = "valid"
	InterpretationInvalid   = "invalid"
)

// SentimentScore is a lexicon polarity result for a text span
type SentimentScore struct {
	Compound  float64 `json:"compound"`  // -1.0 to 1.0
	Positive  float64 `json:"positive"`  // 0.0 to 1.0
	Negative  float64 `json:"negative"`  // 0.0 to 1.0
	Neutral   float64 `json:"neutral"`   // 0.0 to 1.0
	Category  string  `json:"category"`  // very_negative .. very_positive
	Intensity float64 `json:"intensity"` // |compound|
}

// WordSentiment is the sentiment of a single token
type WordSentiment struct {
	Word            string         `json:"word"`
	Language        string         `json:"language"`
	Position        int            `json:"position"`
	Sentiment       SentimentScore `json:"sentiment"`
	Translation     string         `json:"translation,omitempty"`
	EmotionalWeight float64        `json:"emotional_weight"`
	Source          string         `json:"source"`
}

// TranslationInfo records whether the text was translated before scoring
type TranslationInfo struct {
	WasTranslated    bool   `json:"wasTranslated"`
	OriginalLanguage string `json:"originalLanguage"`
	TranslatedText   string `json:"translatedText,omitempty"`
}

// Distribution counts words per sentiment category
type Distribution struct {
	VeryNegative int `json:"very_negative"`
	Negative     int `json:"negative"`
	Neutral      int `json:"neutral"`
	Positive     int `json:"positive"`
	VeryPositive int `json:"very_positive"`
}

// Count returns the number of words in the given category
func (d Distribution) Count(category string) int {
	switch category {
	case CategoryVeryNegative:
		return d.VeryNegative
	case CategoryNegative:
		return d.Negative
	case CategoryNeutral:
		return d.Neutral
	case CategoryPositive:
		return d.Positive
	case CategoryVeryPositive:
		return d.VeryPositive
	}
	return 0
}

// Total returns the number of words across all categories
func (d Distribution) Total() int {
	return d.VeryNegative + d.Negative + d.Neutral + d.Positive + d.VeryPositive
}

// Percentages holds the share of words per category, in percent with two decimals
type Percentages struct {
	VeryNegative float64 `json:"very_negative"`
	Negative     float64 `json:"negative"`
	Neutral      float64 `json:"neutral"`
	Positive     float64 `json:"positive"`
	VeryPositive float64 `json:"very_positive"`
}

// Sum returns the total of all category percentages
func (p Percentages) Sum() float64 {
	return p.VeryNegative + p.Negative + p.Neutral + p.Positive + p.VeryPositive
}

// WordAnalysis is the lexicon per-word breakdown of a text
type WordAnalysis struct {
	Words              []WordSentiment `json:"words"`
	Distribution       Distribution    `json:"distribution"`
	Percentages        Percentages     `json:"percentages"`
	MostEmotionalWords []WordSentiment `json:"mostEmotionalWords"`
}

// AnalysisMetadata describes a lexicon analysis run
type AnalysisMetadata struct {
	OriginalLength       int       `json:"originalLength"`
	NormalizedLength     int       `json:"normalizedLength"`
	WordCount            int       `json:"wordCount"`
	SignificantWordCount int       `json:"significantWordCount"`
	AverageWordCompound  float64   `json:"averageWordCompound"`
	WordCompoundStdDev   float64   `json:"wordCompoundStdDev"`
	Lexicon              string    `json:"lexicon"`
	AnalyzedAt           time.Time `json:"analyzedAt"`
	ProcessingTimeMs     int64     `json:"processingTimeMs"`
}

// AnalysisResult is the lexicon-only analysis of a message
type AnalysisResult struct {
	Input        string           `json:"input"`
	Normalized   string           `json:"normalized"`
	Translation  TranslationInfo  `json:"translation"`
	Overall      SentimentScore   `json:"overall"`
	WordAnalysis WordAnalysis     `json:"wordAnalysis"`
	Metadata     AnalysisMetadata `json:"metadata"`
}

// LLMWordSentiment is the sentiment block for a word returned by the model
type LLMWordSentiment struct {
	Compound float64 `json:"compound" jsonschema:"description=Polarity of the word from -1 (most negative) to 1 (most positive)"`
	Category string  `json:"category" jsonschema:"enum=very_negative,enum=negative,enum=neutral,enum=positive,enum=very_positive"`
}

// LLMWord is a single entry of the model's word analysis
type LLMWord struct {
	Word            string           `json:"word" jsonschema:"description=The word as written in the message"`
	Language        string           `json:"language" jsonschema:"enum=tagalog,enum=english,enum=mixed"`
	Position        int              `json:"position" jsonschema:"description=Zero-based word position in the message"`
	Sentiment       LLMWordSentiment `json:"sentiment"`
	Translation     string           `json:"translation" jsonschema:"description=English translation for Tagalog words; empty for English words"`
	EmotionalWeight float64          `json:"emotional_weight" jsonschema:"description=How strongly the word drives the message emotion from 0 to 1"`
}

// LLMWordMetadata is the metadata block of the model's word analysis
type LLMWordMetadata struct {
	TotalWords       int    `json:"total_words"`
	DominantLanguage string `json:"dominant_language"`
}

// LLMWordResponse is the JSON document the model is asked to return for word analysis
type LLMWordResponse struct {
	WordAnalysis []LLMWord       `json:"wordAnalysis" jsonschema:"description=Only emotionally significant words"`
	Metadata     LLMWordMetadata `json:"metadata"`
}

// WordAnalysisMetadata summarizes a word analysis outcome
type WordAnalysisMetadata struct {
	TotalWords       int    `json:"total_words"`
	DominantLanguage string `json:"dominant_language"`
	Source           string `json:"source"`
	IsValid          bool   `json:"isValid"`
	Reason           string `json:"reason,omitempty"`
	Model            string `json:"model,omitempty"`
}

// WordAnalysisOutcome is the validated model word analysis, or its lexicon fallback
type WordAnalysisOutcome struct {
	Words    []WordSentiment      `json:"words"`
	Metadata WordAnalysisMetadata `json:"metadata"`
	Raw      string               `json:"raw,omitempty"`
}

// InterpretationSection describes the emotional state the model reads from the message
type InterpretationSection struct {
	EmotionalState     string   `json:"emotional_state" jsonschema:"description=Short label for the writer's emotional state"`
	PrimaryEmotions    []string `json:"primary_emotions" jsonschema:"description=Emotions expressed in the message"`
	EmotionalIntensity string   `json:"emotional_intensity" jsonschema:"enum=low,enum=moderate,enum=high"`
	ContextSummary     string   `json:"context_summary" jsonschema:"description=One or two sentences on what the message is about"`
}

// AnalyticsSection explains how the lexicon statistics support the interpretation
type AnalyticsSection struct {
	SentimentTrend      string   `json:"sentiment_trend"`
	WordPatternAnalysis string   `json:"word_pattern_analysis"`
	LanguageMixEffect   string   `json:"language_mix_effect"`
	KeyEmotionalDrivers []string `json:"key_emotional_drivers" jsonschema:"description=Words or phrases that carry the sentiment"`
}

// InsightsSection lists psychological signals found in the message
type InsightsSection struct {
	PsychologicalIndicators []string `json:"psychological_indicators"`
	RiskFactors             []string `json:"risk_factors" jsonschema:"description=Signals of distress or risk; empty when none"`
	ProtectiveFactors       []string `json:"protective_factors" jsonschema:"description=Signals of support or resilience; empty when none"`
	CopingIndicators        []string `json:"coping_indicators"`
}

// ValidationSection is the model's own assessment of the lexicon result
type ValidationSection struct {
	VaderAlignment    string   `json:"vader_alignment" jsonschema:"enum=high,enum=medium,enum=low"`
	ConfidenceLevel   float64  `json:"confidence_level" jsonschema:"description=Confidence in the lexicon result from 0 to 1"`
	SentimentCategory string   `json:"sentiment_category" jsonschema:"enum=very_negative,enum=negative,enum=neutral,enum=positive,enum=very_positive"`
	SentimentScore    float64  `json:"sentiment_score" jsonschema:"description=The model's own sentiment score from -1 to 1"`
	Discrepancies     []string `json:"discrepancies"`
}

// ClinicalNotesSection holds support-oriented notes; advisory only
type ClinicalNotesSection struct {
	Observations        []string `json:"observations"`
	RecommendedApproach string   `json:"recommended_approach"`
	FollowUpSuggestions []string `json:"follow_up_suggestions"`
	UrgencyLevel        string   `json:"urgency_level" jsonschema:"enum=low,enum=moderate,enum=high"`
}

// LLMInterpretation is the structured interpretation returned by the model.
// Sections are pointers so that a missing section can be told apart from an empty one.
type LLMInterpretation struct {
	Interpretation *InterpretationSection `json:"interpretation"`
	Analytics      *AnalyticsSection      `json:"analytics"`
	Insights       *InsightsSection       `json:"insights"`
	Validation     *ValidationSection     `json:"validation"`
	ClinicalNotes  *ClinicalNotesSection  `json:"clinical_notes"`
}

// FallbackInterpretation is derived from lexicon statistics when the model result is unusable
type FallbackInterpretation struct {
	EmotionalState     string   `json:"emotional_state"`
	EmotionalIntensity float64  `json:"emotional_intensity"`
	Category           string   `json:"category"`
	Indicators         []string `json:"indicators"`
	Source             string   `json:"source"`
}

// AlignmentAssessment compares the lexicon result with the model's self-reported assessment
type AlignmentAssessment struct {
	CategoryMatch      bool     `json:"category_match"`
	LLMAlignmentRating string   `json:"llm_alignment_rating"`
	ScoreDeviation     float64  `json:"score_deviation"`
	OverallAlignment   string   `json:"overall_alignment"`
	ConfidenceDelta    float64  `json:"confidence_delta"`
	Notes              []string `json:"notes"`
}

// InterpretationOutcome is either a validated model interpretation or a lexicon fallback
type InterpretationOutcome struct {
	Status         string                  `json:"status"` // valid, invalid
	Interpretation *LLMInterpretation      `json:"interpretation,omitempty"`
	Fallback       *FallbackInterpretation `json:"fallback,omitempty"`
	Raw            string                  `json:"raw,omitempty"`
	Reason         string                  `json:"reason,omitempty"`
	Source         string                  `json:"source"`
	Alignment      AlignmentAssessment     `json:"alignment"`
	Confidence     float64                 `json:"confidence"`
}

// Valid reports whether the outcome carries a validated model interpretation
func (o *InterpretationOutcome) Valid() bool {
	return o != nil && o.Status == InterpretationValid && o.Interpretation != nil
}

// EnhancedMetadata describes which pipeline branches ran and their combined verdict
type EnhancedMetadata struct {
	AnalysisID             string  `json:"analysisId"`
	AnalysisMode           string  `json:"analysisMode"`
	Confidence             float64 `json:"confidence"`
	OverallAlignment       string  `json:"overallAlignment"`
	LLMWordAnalysisUsed    bool    `json:"llmWordAnalysisUsed"`
	LLMWordAnalysisValid   bool    `json:"llmWordAnalysisValid"`
	LLMInterpretationUsed  bool    `json:"llmInterpretationUsed"`
	LLMInterpretationValid bool    `json:"llmInterpretationValid"`
	Provider               string  `json:"provider,omitempty"`
	Model                  string  `json:"model,omitempty"`
	ProcessingTimeMs       int64   `json:"processingTimeMs"`
}

// CompleteAnalysis is the result envelope: the lexicon analysis plus any model enrichment
type CompleteAnalysis struct {
	AnalysisResult
	LLMWordAnalysis   *WordAnalysisOutcome   `json:"llmWordAnalysis,omitempty"`
	LLMInterpretation *InterpretationOutcome `json:"llmInterpretation,omitempty"`
	EnhancedMetadata  EnhancedMetadata       `json:"enhancedMetadata"`
}

// QuickResult is a compact projection of an analysis
type QuickResult struct {
	Text          string  `json:"text"`
	Sentiment     string  `json:"sentiment"`
	Score         float64 `json:"score"`
	Confidence    float64 `json:"confidence"`
	WasTranslated bool    `json:"wasTranslated"`
}

// BatchItem is one entry of a batch run. Exactly one of Result or Error is set.
type BatchItem struct {
	Index    int               `json:"index"`
	Result   *CompleteAnalysis `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
	Text     string            `json:"text,omitempty"`
	Fallback *QuickResult      `json:"fallback,omitempty"`
}

// Failed reports whether the item carries an error instead of a result
func (b BatchItem) Failed() bool {
	return b.Error != ""
}

// AnalysisRecord is a completed analysis of a queued chat message
type AnalysisRecord struct {
	AnalysisID  string            `json:"analysis_id"`
	MessageID   string            `json:"message_id,omitempty"`
	SessionID   string            `json:"session_id,omitempty"`
	Result      *CompleteAnalysis `json:"result"`
	CompletedAt time.Time         `json:"completed_at"`
}
