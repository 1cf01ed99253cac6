package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/sentimentanalyzer/internal/analyzer"
	"github.com/zombar/sentimentanalyzer/internal/metrics"
	"github.com/zombar/sentimentanalyzer/internal/models"
)

const tracerName = "github.com/zombar/sentimentanalyzer/internal/queue"

// retryDelays is the backoff for failed analysis tasks; the last entry repeats
var retryDelays = []time.Duration{
	10 * time.Second,
	30 * time.Second,
	1 * time.Minute,
	5 * time.Minute,
}

// MessageAnalyzer runs the full sentiment pipeline for one message
type MessageAnalyzer interface {
	AnalyzeComplete(ctx context.Context, text string, opts analyzer.Options) (*models.CompleteAnalysis, error)
}

// Worker wraps the Asynq server for processing tasks
type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	analyzer    MessageAnalyzer
	sink        ResultSink
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	logger      *slog.Logger
	concurrency int
	defaults    analyzer.Options
}

// WorkerConfig contains configuration for the queue worker
type WorkerConfig struct {
	RedisAddr   string
	Concurrency int
	// DefaultOptions apply to tasks whose payload carries no options
	DefaultOptions analyzer.Options
}

// NewWorker creates a new queue worker
func NewWorker(cfg WorkerConfig, a MessageAnalyzer, sink ResultSink, m *metrics.Metrics, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}

	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	serverCfg := asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueSentiment: 1,
		},
		RetryDelayFunc:  retryDelay,
		ShutdownTimeout: 30 * time.Second,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)

			logger.Error("task processing error",
				"task_type", task.Type(),
				"error", err,
				"retry_count", retried,
				"max_retries", maxRetry,
			)
		}),
	}

	w := &Worker{
		server:      asynq.NewServer(redisOpt, serverCfg),
		mux:         asynq.NewServeMux(),
		analyzer:    a,
		sink:        sink,
		metrics:     m,
		tracer:      otel.Tracer(tracerName),
		logger:      logger,
		concurrency: cfg.Concurrency,
		defaults:    cfg.DefaultOptions,
	}

	w.registerHandlers()

	return w
}

// registerHandlers registers all task handlers with the worker
func (w *Worker) registerHandlers() {
	w.mux.HandleFunc(TypeAnalyzeMessage, w.handleAnalyzeMessage)
}

// Start starts the worker to begin processing tasks
func (w *Worker) Start() error {
	w.logger.Info("starting asynq worker",
		"concurrency", w.concurrency,
		"queue", QueueSentiment,
	)

	// Run is blocking - starts processing tasks
	if err := w.server.Run(w.mux); err != nil {
		return fmt.Errorf("asynq server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the worker
func (w *Worker) Shutdown() {
	w.logger.Info("shutting down asynq worker")
	w.server.Shutdown()
}

// Server returns the underlying Asynq server (for testing)
func (w *Worker) Server() *asynq.Server {
	return w.server
}

func retryDelay(n int, err error, task *asynq.Task) time.Duration {
	if n < len(retryDelays) {
		return retryDelays[n]
	}
	return retryDelays[len(retryDelays)-1]
}
