package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zombar/sentimentanalyzer/internal/analyzer"
	"github.com/zombar/sentimentanalyzer/internal/metrics"
	"github.com/zombar/sentimentanalyzer/internal/models"
)

type fakeAnalyzer struct {
	err      error
	gotText  string
	gotOpts  analyzer.Options
	category string
}

func (f *fakeAnalyzer) AnalyzeComplete(ctx context.Context, text string, opts analyzer.Options) (*models.CompleteAnalysis, error) {
	f.gotText = text
	f.gotOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	result := &models.CompleteAnalysis{}
	result.Input = text
	result.Overall.Category = f.category
	result.EnhancedMetadata = models.EnhancedMetadata{AnalysisID: "generated", AnalysisMode: models.ModeVaderOnly}
	return result, nil
}

type memorySink struct {
	mu      sync.Mutex
	records []*models.AnalysisRecord
	err     error
}

func (s *memorySink) Save(ctx context.Context, record *models.AnalysisRecord) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

type testWorker struct {
	*Worker
	analyzer *fakeAnalyzer
	sink     *memorySink
	spans    *tracetest.SpanRecorder
}

func newTestWorker(t *testing.T) *testWorker {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	fa := &fakeAnalyzer{category: models.CategoryNegative}
	sink := &memorySink{}
	w := &Worker{
		analyzer: fa,
		sink:     sink,
		metrics:  metrics.New(prometheus.NewRegistry()),
		tracer:   tp.Tracer("test"),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return &testWorker{Worker: w, analyzer: fa, sink: sink, spans: recorder}
}

func analyzeTask(t *testing.T, payload AnalyzeMessagePayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(TypeAnalyzeMessage, data)
}

func TestHandleAnalyzeMessage(t *testing.T) {
	w := newTestWorker(t)

	task := analyzeTask(t, AnalyzeMessagePayload{
		AnalysisID: "analysis-1",
		MessageID:  "msg-1",
		SessionID:  "session-1",
		Text:       "Malungkot ako ngayon",
		Options:    &analyzer.Options{EnableTranslation: true, EnableLLM: true},
	})

	require.NoError(t, w.handleAnalyzeMessage(context.Background(), task))

	assert.Equal(t, "Malungkot ako ngayon", w.analyzer.gotText)
	assert.True(t, w.analyzer.gotOpts.EnableLLM)

	require.Len(t, w.sink.records, 1)
	record := w.sink.records[0]
	assert.Equal(t, "analysis-1", record.AnalysisID)
	assert.Equal(t, "msg-1", record.MessageID)
	assert.Equal(t, "session-1", record.SessionID)
	assert.Equal(t, "analysis-1", record.Result.EnhancedMetadata.AnalysisID)
	assert.False(t, record.CompletedAt.IsZero())

	assert.Equal(t, 1.0, testutil.ToFloat64(w.metrics.TasksTotal.WithLabelValues(TypeAnalyzeMessage, "success")))
}

func TestHandleAnalyzeMessageDefaultOptions(t *testing.T) {
	w := newTestWorker(t)
	w.defaults = analyzer.Options{EnableTranslation: true, EnableLLMWordAnalysis: true}

	require.NoError(t, w.handleAnalyzeMessage(context.Background(), analyzeTask(t, AnalyzeMessagePayload{
		AnalysisID: "analysis-3",
		Text:       "hello there",
	})))
	assert.Equal(t, w.defaults, w.analyzer.gotOpts)
}

func TestHandleAnalyzeMessageErrors(t *testing.T) {
	tests := []struct {
		name      string
		payload   []byte
		analyzer  error
		sink      error
		skipRetry bool
		outcome   string
	}{
		{
			name:      "malformed payload",
			payload:   []byte(`{"analysis_id": `),
			skipRetry: true,
			outcome:   "invalid_payload",
		},
		{
			name:      "invalid input",
			analyzer:  analyzer.ErrInvalidInput,
			skipRetry: true,
			outcome:   "invalid_input",
		},
		{
			name:     "analyzer failure retries",
			analyzer: errors.New("unexpected"),
			outcome:  "failed",
		},
		{
			name:    "sink failure retries",
			sink:    errors.New("database is locked"),
			outcome: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorker(t)
			w.analyzer.err = tt.analyzer
			w.sink.err = tt.sink

			task := analyzeTask(t, AnalyzeMessagePayload{AnalysisID: "analysis-2", Text: "hello"})
			if tt.payload != nil {
				task = asynq.NewTask(TypeAnalyzeMessage, tt.payload)
			}

			err := w.handleAnalyzeMessage(context.Background(), task)
			require.Error(t, err)
			assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
			assert.Empty(t, w.sink.records)
			assert.Equal(t, 1.0, testutil.ToFloat64(w.metrics.TasksTotal.WithLabelValues(TypeAnalyzeMessage, tt.outcome)))
		})
	}
}

func TestLogSinkSave(t *testing.T) {
	result := &models.CompleteAnalysis{}
	result.Overall.Category = models.CategoryPositive

	sink := NewLogSink(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, sink.Save(context.Background(), &models.AnalysisRecord{AnalysisID: "a", Result: result}))
}
