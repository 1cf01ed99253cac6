package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/sentimentanalyzer/internal/analyzer"
	"github.com/zombar/sentimentanalyzer/internal/tracing"
)

// Task type constants
const (
	TypeAnalyzeMessage = "sentiment:analyze_message"
)

// QueueSentiment is the queue analysis tasks are enqueued on
const QueueSentiment = "sentiment-analysis"

// AnalyzeMessagePayload represents the payload for analyzing one chat message
type AnalyzeMessagePayload struct {
	AnalysisID string `json:"analysis_id"`
	MessageID  string `json:"message_id,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
	Text       string `json:"text"`
	// Options overrides the worker's default branch toggles when set
	Options *analyzer.Options `json:"options,omitempty"`
	// Tracing and timing fields
	TraceID    string `json:"trace_id,omitempty"`
	SpanID     string `json:"span_id,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix timestamp in nanoseconds
}

type enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client wraps the Asynq client for enqueueing tasks
type Client struct {
	client enqueuer
}

// ClientConfig contains configuration for the queue client
type ClientConfig struct {
	RedisAddr string
}

// NewClient creates a new queue client
func NewClient(cfg ClientConfig) *Client {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	return &Client{
		client: asynq.NewClient(redisOpt),
	}
}

// EnqueueAnalyzeMessage enqueues a message analysis task and returns the task ID.
// A missing analysis ID is generated.
func (c *Client) EnqueueAnalyzeMessage(ctx context.Context, payload AnalyzeMessagePayload) (string, error) {
	task, err := NewAnalyzeMessageTask(ctx, &payload)
	if err != nil {
		return "", err
	}

	opts := []asynq.Option{
		asynq.TaskID(payload.AnalysisID),
		asynq.MaxRetry(3),
		asynq.Timeout(2 * time.Minute), // covers both model branches plus translation
		asynq.Queue(QueueSentiment),
		asynq.Retention(24 * time.Hour),
	}

	info, err := c.client.Enqueue(task, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue analyze message task: %w", err)
	}

	return info.ID, nil
}

// NewAnalyzeMessageTask stamps payload with an analysis ID, the enqueue time and the
// trace context in ctx, and builds the task
func NewAnalyzeMessageTask(ctx context.Context, payload *AnalyzeMessagePayload) (*asynq.Task, error) {
	if payload.AnalysisID == "" {
		payload.AnalysisID = uuid.NewString()
	}
	payload.EnqueuedAt = time.Now().UnixNano()

	if traceID, spanID := tracing.SpanIDs(ctx); traceID != "" {
		payload.TraceID = traceID
		payload.SpanID = spanID

		trace.SpanFromContext(ctx).AddEvent("task_enqueued", trace.WithAttributes(
			attribute.String("task.type", TypeAnalyzeMessage),
			attribute.String("analysis_id", payload.AnalysisID),
			attribute.String("message_id", payload.MessageID),
			attribute.Int64("enqueued_at", payload.EnqueuedAt),
		))
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	return asynq.NewTask(TypeAnalyzeMessage, payloadBytes), nil
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}
