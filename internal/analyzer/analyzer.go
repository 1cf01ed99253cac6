package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/zombar/sentimentanalyzer/internal/llm"
	"github.com/zombar/sentimentanalyzer/internal/metrics"
	"github.com/zombar/sentimentanalyzer/internal/models"
)

const tracerName = "github.com/zombar/sentimentanalyzer/internal/analyzer"

// Analyzer runs the hybrid sentiment pipeline. It holds no per-call state and is safe
// for concurrent use.
type Analyzer struct {
	cfg        Config
	lexicon    Lexicon
	llm        llm.ChatCompleter
	translator Translator
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	newID      func() string
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithLLM enables the model-backed branches
func WithLLM(c llm.ChatCompleter) Option {
	return func(a *Analyzer) { a.llm = c }
}

// WithTranslator sets the collaborator used for Tagalog text
func WithTranslator(t Translator) Option {
	return func(a *Analyzer) { a.translator = t }
}

// WithLexicon replaces the default VADER scorer
func WithLexicon(l Lexicon) Option {
	return func(a *Analyzer) { a.lexicon = l }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithTracer sets the tracer
func WithTracer(t trace.Tracer) Option {
	return func(a *Analyzer) { a.tracer = t }
}

// New creates an Analyzer
func New(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analyzer config: %w", err)
	}

	a := &Analyzer{
		cfg:    cfg,
		logger: slog.Default(),
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.lexicon == nil {
		a.lexicon = NewVaderLexicon()
	}
	if a.tracer == nil {
		a.tracer = otel.Tracer(tracerName)
	}
	return a, nil
}

// Analyze runs the lexicon baseline: normalization, optional translation, and scoring.
// It fails only on invalid input.
func (a *Analyzer) Analyze(ctx context.Context, text string, opts Options) (*models.AnalysisResult, error) {
	start := time.Now()

	normalized, err := NormalizeText(text)
	if err != nil {
		return nil, err
	}

	tagalog := ContainsTagalog(normalized)
	scored, translation := a.translate(ctx, text, tagalog, opts)
	if translation.WasTranslated {
		if translatedNorm, err := NormalizeText(scored); err == nil {
			normalized = translatedNorm
		} else {
			translation = models.TranslationInfo{OriginalLanguage: translation.OriginalLanguage}
		}
	}

	tokens := Tokenize(normalized)
	overall, words, stats := a.scoreLexicon(normalized, tokens)

	return &models.AnalysisResult{
		Input:        text,
		Normalized:   normalized,
		Translation:  translation,
		Overall:      overall,
		WordAnalysis: words,
		Metadata: models.AnalysisMetadata{
			OriginalLength:       len([]rune(text)),
			NormalizedLength:     len([]rune(normalized)),
			WordCount:            len(tokens),
			SignificantWordCount: stats.significant,
			AverageWordCompound:  stats.mean,
			WordCompoundStdDev:   stats.stdDev,
			Lexicon:              models.SourceVader,
			AnalyzedAt:           start.UTC(),
			ProcessingTimeMs:     time.Since(start).Milliseconds(),
		},
	}, nil
}

// AnalyzeComplete runs the baseline and, when enabled and a model is configured, the word
// analysis and interpretation branches in parallel. Branch failures never fail the call.
func (a *Analyzer) AnalyzeComplete(ctx context.Context, text string, opts Options) (*models.CompleteAnalysis, error) {
	start := time.Now()
	analysisID := a.newID()

	ctx, span := a.tracer.Start(ctx, "sentiment.analyze", trace.WithAttributes(
		attribute.String("analysis.id", analysisID),
		attribute.Int("text.length", len(text)),
		attribute.Bool("options.translation", opts.EnableTranslation),
		attribute.Bool("options.llm", opts.EnableLLM),
		attribute.Bool("options.llm_word_analysis", opts.EnableLLMWordAnalysis),
	))
	defer span.End()

	base, err := a.Analyze(ctx, text, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := &models.CompleteAnalysis{AnalysisResult: *base}

	runWords := opts.EnableLLMWordAnalysis && a.llm != nil
	runInterpretation := opts.EnableLLM && a.llm != nil

	var g errgroup.Group
	if runWords {
		g.Go(func() error {
			result.LLMWordAnalysis = a.analyzeWordsWithLLM(ctx, text, base.WordAnalysis)
			return nil
		})
	}
	if runInterpretation {
		g.Go(func() error {
			result.LLMInterpretation = a.interpret(ctx, base)
			return nil
		})
	}
	_ = g.Wait()

	mode := analysisMode(runWords, runInterpretation)
	meta := models.EnhancedMetadata{
		AnalysisID:            analysisID,
		AnalysisMode:          mode,
		Confidence:            neutralAlignment,
		OverallAlignment:      models.AlignmentUnknown,
		LLMWordAnalysisUsed:   runWords,
		LLMInterpretationUsed: runInterpretation,
	}
	if result.LLMWordAnalysis != nil {
		meta.LLMWordAnalysisValid = result.LLMWordAnalysis.Metadata.IsValid
	}
	if result.LLMInterpretation != nil {
		meta.LLMInterpretationValid = result.LLMInterpretation.Valid()
		meta.Confidence = result.LLMInterpretation.Confidence
		meta.OverallAlignment = result.LLMInterpretation.Alignment.OverallAlignment
	}
	if runWords || runInterpretation {
		meta.Provider = a.cfg.Provider
		meta.Model = a.cfg.Model
	}
	meta.ProcessingTimeMs = time.Since(start).Milliseconds()
	result.EnhancedMetadata = meta

	a.metrics.RecordAnalysis(mode)
	span.SetAttributes(
		attribute.String("analysis.mode", mode),
		attribute.String("sentiment.category", result.Overall.Category),
		attribute.Float64("sentiment.compound", result.Overall.Compound),
	)
	a.logger.Info("sentiment analysis complete",
		"analysis_id", analysisID,
		"mode", mode,
		"category", result.Overall.Category,
		"compound", result.Overall.Compound,
		"was_translated", result.Translation.WasTranslated,
		"llm_words_valid", meta.LLMWordAnalysisValid,
		"llm_interpretation_valid", meta.LLMInterpretationValid,
		"duration_ms", meta.ProcessingTimeMs,
	)

	return result, nil
}

// QuickAnalyze returns a compact lexicon-only projection with translation enabled
func (a *Analyzer) QuickAnalyze(ctx context.Context, text string) (*models.QuickResult, error) {
	result, err := a.Analyze(ctx, text, DefaultOptions())
	if err != nil {
		return nil, err
	}
	return &models.QuickResult{
		Text:          text,
		Sentiment:     result.Overall.Category,
		Score:         result.Overall.Compound,
		Confidence:    result.Overall.Intensity,
		WasTranslated: result.Translation.WasTranslated,
	}, nil
}

func analysisMode(words, interpretation bool) string {
	switch {
	case words && interpretation:
		return models.ModeHybridFullLLM
	case interpretation:
		return models.ModeVaderWithLLMInterpretation
	case words:
		return models.ModeVaderWithLLMWords
	default:
		return models.ModeVaderOnly
	}
}
