package analyzer

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/zombar/sentimentanalyzer/internal/models"
)

// AnalyzeBatch analyzes each text independently. Results keep input order and a failed
// item carries its error, its text, and a best-effort quick result instead of aborting the batch.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, texts []string, opts Options) []models.BatchItem {
	items := make([]models.BatchItem, len(texts))

	var g errgroup.Group
	g.SetLimit(a.cfg.BatchConcurrency)
	for i, text := range texts {
		g.Go(func() error {
			items[i] = a.analyzeBatchItem(ctx, i, text, opts)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, item := range items {
		if item.Failed() {
			failed++
		}
	}
	a.logger.Info("batch analysis complete",
		"items", len(items),
		"failed", failed,
		"concurrency", a.cfg.BatchConcurrency,
	)
	return items
}

func (a *Analyzer) analyzeBatchItem(ctx context.Context, index int, text string, opts Options) (item models.BatchItem) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("batch item panicked",
				"index", index,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			item = a.failedBatchItem(ctx, index, text, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return a.failedBatchItem(ctx, index, text, err)
	}

	result, err := a.AnalyzeComplete(ctx, text, opts)
	if err != nil {
		return a.failedBatchItem(ctx, index, text, err)
	}

	a.metrics.RecordBatchItem("success")
	return models.BatchItem{Index: index, Result: result}
}

func (a *Analyzer) failedBatchItem(ctx context.Context, index int, text string, cause error) models.BatchItem {
	err := &BatchItemError{Index: index, Text: text, Err: cause}
	a.metrics.RecordBatchItem("failed")
	a.logger.Warn("batch item failed", "index", index, "error", err)

	return models.BatchItem{
		Index:    index,
		Error:    err.Error(),
		Text:     text,
		Fallback: a.quickFallback(ctx, text),
	}
}

// quickFallback attempts a lexicon-only quick result and settles for a neutral one
func (a *Analyzer) quickFallback(ctx context.Context, text string) (out *models.QuickResult) {
	neutral := &models.QuickResult{
		Text:      text,
		Sentiment: models.CategoryNeutral,
	}

	defer func() {
		if r := recover(); r != nil {
			out = neutral
		}
	}()

	quick, err := a.QuickAnalyze(ctx, text)
	if err != nil {
		return neutral
	}
	return quick
}
