package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/sentimentanalyzer/internal/analyzer"
	"github.com/zombar/sentimentanalyzer/internal/models"
	"github.com/zombar/sentimentanalyzer/internal/tracing"
)

// handleAnalyzeMessage runs the sentiment pipeline for a queued chat message and hands
// the result to the sink
func (w *Worker) handleAnalyzeMessage(ctx context.Context, t *asynq.Task) error {
	var payload AnalyzeMessagePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		w.metrics.RecordTask(TypeAnalyzeMessage, "invalid_payload")
		return fmt.Errorf("invalid task payload: %v: %w", err, asynq.SkipRetry)
	}

	// Calculate queue wait time
	var queueWaitTime time.Duration
	if payload.EnqueuedAt > 0 {
		queueWaitTime = time.Since(time.Unix(0, payload.EnqueuedAt))
		w.metrics.ObserveQueueWait(queueWaitTime)
	}

	retryCount, _ := asynq.GetRetryCount(ctx)

	// Recreate trace context from payload if available
	if remoteCtx, ok := tracing.RemoteContext(ctx, payload.TraceID, payload.SpanID); ok {
		ctx = remoteCtx
	}
	ctx, span := w.tracer.Start(ctx, "asynq.task.process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("task.type", TypeAnalyzeMessage),
			attribute.String("analysis.id", payload.AnalysisID),
			attribute.String("message.id", payload.MessageID),
			attribute.Int("text.length", len(payload.Text)),
			attribute.Int("retry.count", retryCount),
			attribute.Float64("queue.wait_time_seconds", queueWaitTime.Seconds()),
			attribute.Int64("enqueued_at", payload.EnqueuedAt),
		),
	)
	defer span.End()

	span.AddEvent("task_processing_started", trace.WithAttributes(
		attribute.Float64("wait_time_seconds", queueWaitTime.Seconds()),
	))

	w.logger.Info("analyzing message",
		"analysis_id", payload.AnalysisID,
		"message_id", payload.MessageID,
		"text_length", len(payload.Text),
		"retry_count", retryCount,
		"queue_wait_seconds", queueWaitTime.Seconds(),
	)

	opts := w.defaults
	if payload.Options != nil {
		opts = *payload.Options
	}

	result, err := w.analyzer.AnalyzeComplete(ctx, payload.Text, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, analyzer.ErrInvalidInput) {
			w.logger.Warn("skipping message with invalid text", "analysis_id", payload.AnalysisID)
			w.metrics.RecordTask(TypeAnalyzeMessage, "invalid_input")
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		w.metrics.RecordTask(TypeAnalyzeMessage, "failed")
		return fmt.Errorf("sentiment analysis failed: %w", err)
	}

	// the queued analysis is addressed by the enqueuer's ID
	result.EnhancedMetadata.AnalysisID = payload.AnalysisID

	record := &models.AnalysisRecord{
		AnalysisID:  payload.AnalysisID,
		MessageID:   payload.MessageID,
		SessionID:   payload.SessionID,
		Result:      result,
		CompletedAt: time.Now().UTC(),
	}
	if err := w.sink.Save(ctx, record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save result")
		w.metrics.RecordTask(TypeAnalyzeMessage, "failed")
		return fmt.Errorf("failed to save analysis result: %w", err)
	}

	span.SetAttributes(
		attribute.String("analysis.mode", result.EnhancedMetadata.AnalysisMode),
		attribute.String("sentiment.category", result.Overall.Category),
	)
	w.metrics.RecordTask(TypeAnalyzeMessage, "success")
	w.logger.Info("message analysis saved",
		"analysis_id", payload.AnalysisID,
		"category", result.Overall.Category,
		"mode", result.EnhancedMetadata.AnalysisMode,
	)

	return nil
}
