package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zombar/sentimentanalyzer/internal/analyzer"
	"github.com/zombar/sentimentanalyzer/internal/config"
	"github.com/zombar/sentimentanalyzer/internal/database"
	"github.com/zombar/sentimentanalyzer/internal/llm"
	"github.com/zombar/sentimentanalyzer/internal/metrics"
	"github.com/zombar/sentimentanalyzer/internal/queue"
	"github.com/zombar/sentimentanalyzer/internal/tracing"
	"github.com/zombar/sentimentanalyzer/internal/translate"
	"github.com/zombar/sentimentanalyzer/pkg/logging"
)

const serviceName = "sentiment-worker"

func main() {
	env := flag.String("env", os.Getenv("APP_ENV"), "Environment name; loads config/envs/.env.<env> (env: APP_ENV)")
	flag.Parse()

	cfg, err := config.Load(*env)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.AppEnv, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("sentiment worker initializing", "env", cfg.AppEnv)

	ctx := context.Background()

	// Initialize tracing
	tp, err := tracing.InitTracer(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else if tp != nil {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
		logger.Info("tracing initialized successfully", "endpoint", cfg.OTLPEndpoint)
	}

	m := metrics.New(nil)

	opts := []analyzer.Option{
		analyzer.WithLogger(logger),
		analyzer.WithMetrics(m),
	}
	if client, err := newChatClient(cfg, logger); err != nil {
		logger.Warn("failed to initialize LLM provider, falling back to lexicon-only analysis",
			"error", err,
			"provider", cfg.LLMProvider,
		)
	} else {
		translator := translate.NewBreaker(
			translate.NewLLMTranslator(client, cfg.LLMProvider, cfg.TranslationModel(), logger),
			translate.BreakerSettings{},
			logger,
		)
		opts = append(opts, analyzer.WithLLM(client), analyzer.WithTranslator(translator))
		logger.Info("LLM provider initialized", "provider", cfg.LLMProvider, "model", cfg.LLMModel)
	}

	sentimentAnalyzer, err := analyzer.New(cfg.AnalyzerConfig(), opts...)
	if err != nil {
		logger.Error("failed to create analyzer", "error", err)
		os.Exit(1)
	}

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics endpoint listening", "addr", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	var sink queue.ResultSink = queue.NewLogSink(logger)
	if cfg.DatabaseURL != "" {
		db, err := database.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		sink = db
		logger.Info("storing analyses in PostgreSQL")
	}

	worker := queue.NewWorker(queue.WorkerConfig{
		RedisAddr:      cfg.RedisAddr,
		Concurrency:    cfg.WorkerConcurrency,
		DefaultOptions: cfg.AnalyzerOptions(),
	}, sentimentAnalyzer, sink, m, logger)

	go func() {
		logger.Info("sentiment worker starting",
			"redis_addr", cfg.RedisAddr,
			"concurrency", cfg.WorkerConcurrency,
			"llm_provider", cfg.LLMProvider,
			"llm_enabled", cfg.EnableLLM,
			"llm_word_analysis_enabled", cfg.EnableLLMWordAnalysis,
			"translation_enabled", cfg.EnableTranslation,
		)
		if err := worker.Start(); err != nil {
			logger.Error("worker failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	worker.Shutdown()

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server forced to shutdown", "error", err)
		}
	}

	logger.Info("sentiment worker stopped")
}

// newChatClient registers the configured provider; the registry routes requests to it
func newChatClient(cfg *config.Config, logger *slog.Logger) (*llm.Registry, error) {
	registry := llm.NewRegistry()

	switch cfg.LLMProvider {
	case llm.ProviderOpenAI:
		provider, err := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel, logger)
		if err != nil {
			return nil, err
		}
		registry.Register(llm.ProviderOpenAI, provider)
	default:
		provider, err := llm.NewOllama(cfg.OllamaURL, cfg.LLMModel, logger)
		if err != nil {
			return nil, err
		}
		registry.Register(llm.ProviderOllama, provider)
	}

	return registry, nil
}
