package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/zombar/sentimentanalyzer/internal/models"
)

// ErrNotFound is returned when no analysis matches the query
var ErrNotFound = errors.New("analysis not found")

const selectColumns = `analysis_id, COALESCE(message_id, ''), COALESCE(session_id, ''), result, completed_at`

// Save upserts a completed analysis. Redelivered tasks overwrite the earlier row.
func (db *DB) Save(ctx context.Context, record *models.AnalysisRecord) error {
	if record == nil || record.Result == nil {
		return errors.New("analysis record has no result")
	}

	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	result := record.Result
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO message_sentiments (
			analysis_id, message_id, session_id, category, compound, intensity,
			analysis_mode, confidence, was_translated, result, completed_at
		)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (analysis_id) DO UPDATE SET
			category = EXCLUDED.category,
			compound = EXCLUDED.compound,
			intensity = EXCLUDED.intensity,
			analysis_mode = EXCLUDED.analysis_mode,
			confidence = EXCLUDED.confidence,
			was_translated = EXCLUDED.was_translated,
			result = EXCLUDED.result,
			completed_at = EXCLUDED.completed_at
	`,
		record.AnalysisID,
		record.MessageID,
		record.SessionID,
		result.Overall.Category,
		result.Overall.Compound,
		result.Overall.Intensity,
		result.EnhancedMetadata.AnalysisMode,
		result.EnhancedMetadata.Confidence,
		result.Translation.WasTranslated,
		resultJSON,
		record.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by ID
func (db *DB) GetAnalysis(ctx context.Context, analysisID string) (*models.AnalysisRecord, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM message_sentiments WHERE analysis_id = $1`, analysisID)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return record, nil
}

// ListSessionAnalyses returns a session's analyses oldest first, at most limit of them
func (db *DB) ListSessionAnalyses(ctx context.Context, sessionID string, limit int) ([]*models.AnalysisRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM message_sentiments
		WHERE session_id = $1
		ORDER BY completed_at ASC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []*models.AnalysisRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CategoryCounts returns how many of a session's analyses fall in each category
func (db *DB) CategoryCounts(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT category, COUNT(*)
		FROM message_sentiments
		WHERE session_id = $1
		GROUP BY category
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.AnalysisRecord, error) {
	var (
		record      models.AnalysisRecord
		resultJSON  []byte
		completedAt time.Time
	)
	if err := s.Scan(&record.AnalysisID, &record.MessageID, &record.SessionID, &resultJSON, &completedAt); err != nil {
		return nil, err
	}

	var result models.CompleteAnalysis
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	record.Result = &result
	record.CompletedAt = completedAt.UTC()
	return &record, nil
}
