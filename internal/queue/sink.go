package queue

import (
	"context"
	"log/slog"

	"github.com/zombar/sentimentanalyzer/internal/models"
)

// ResultSink receives completed analyses. A returned error retries the task.
type ResultSink interface {
	Save(ctx context.Context, record *models.AnalysisRecord) error
}

// LogSink writes a summary of each analysis to the logger
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Save logs the record
func (s *LogSink) Save(ctx context.Context, record *models.AnalysisRecord) error {
	result := record.Result
	s.logger.InfoContext(ctx, "message sentiment",
		"analysis_id", record.AnalysisID,
		"message_id", record.MessageID,
		"session_id", record.SessionID,
		"category", result.Overall.Category,
		"compound", result.Overall.Compound,
		"mode", result.EnhancedMetadata.AnalysisMode,
		"confidence", result.EnhancedMetadata.Confidence,
		"was_translated", result.Translation.WasTranslated,
	)
	return nil
}
