package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/sentimentanalyzer/internal/models"
)

// Translator translates text between ISO 639-1 language codes
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface
type TranslatorFunc func(ctx context.Context, text, from, to string) (string, error)

// Translate calls f
func (f TranslatorFunc) Translate(ctx context.Context, text, from, to string) (string, error) {
	return f(ctx, text, from, to)
}

// translate returns the text to score and how it was obtained. Translation runs only for
// Tagalog-flagged text with translation enabled; failures pass the original text through.
func (a *Analyzer) translate(ctx context.Context, text string, tagalog bool, opts Options) (string, models.TranslationInfo) {
	info := models.TranslationInfo{OriginalLanguage: originalLanguage(tagalog)}
	if !tagalog || !opts.EnableTranslation || a.translator == nil {
		return text, info
	}

	ctx, span := a.tracer.Start(ctx, "sentiment.translate", trace.WithAttributes(
		attribute.String("translation.from", "tl"),
		attribute.String("translation.to", "en"),
	))
	defer span.End()

	translated, err := callWithTimeout(ctx, a.cfg.TranslationTimeout, func(ctx context.Context) (string, error) {
		return a.callTranslator(ctx, text)
	})
	if err == nil && strings.TrimSpace(translated) == "" {
		err = errors.New("empty translation")
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrTranslationFailure, err)
		a.metrics.RecordTranslation("failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "translation failed")
		a.logger.Warn("translation failed, scoring original text", "error", err)
		return text, info
	}

	a.metrics.RecordTranslation("success")
	span.SetAttributes(attribute.Int("translation.length", len(translated)))

	info.WasTranslated = true
	info.TranslatedText = translated
	return translated, info
}

func (a *Analyzer) callTranslator(ctx context.Context, text string) (translated string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("translator panicked: %v", r)
		}
	}()
	return a.translator.Translate(ctx, text, "tl", "en")
}
