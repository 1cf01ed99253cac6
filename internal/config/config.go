// Package config loads worker configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"

	"github.com/zombar/sentimentanalyzer/internal/analyzer"
	"github.com/zombar/sentimentanalyzer/internal/llm"
)

// EnvDir holds the per-environment dotenv files
const EnvDir = "config/envs"

// Config holds the worker settings
type Config struct {
	AppEnv   string
	LogLevel string

	LLMProvider         string
	LLMModel            string
	LLMTranslationModel string
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OllamaURL           string

	EnableTranslation     bool
	EnableLLM             bool
	EnableLLMWordAnalysis bool

	WordTimeout           time.Duration
	InterpretationTimeout time.Duration
	TranslationTimeout    time.Duration
	BatchConcurrency      int

	RedisAddr         string
	WorkerConcurrency int
	// DatabaseURL enables PostgreSQL result storage; empty logs results instead
	DatabaseURL  string
	MetricsAddr  string
	OTLPEndpoint string
}

// Load reads config/envs/.env.<env> when present and then the process environment.
// Variables already set in the environment win over the file.
func Load(env string) (*Config, error) {
	if env == "" {
		env = getEnv("APP_ENV", "development")
	}
	envFile := EnvDir + "/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("no .env file found, using OS environment", "file", envFile)
	}

	cfg := &Config{
		AppEnv:   env,
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LLMProvider:         strings.ToLower(getEnv("LLM_PROVIDER", llm.ProviderOllama)),
		LLMModel:            getEnv("LLM_MODEL", ""),
		LLMTranslationModel: getEnv("LLM_TRANSLATION_MODEL", ""),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
		OllamaURL:           getEnv("OLLAMA_URL", llm.DefaultOllamaURL),

		EnableTranslation:     getEnvBool("ENABLE_TRANSLATION", true),
		EnableLLM:             getEnvBool("ENABLE_LLM", false),
		EnableLLMWordAnalysis: getEnvBool("ENABLE_LLM_WORD_ANALYSIS", false),

		WordTimeout:           getEnvDuration("LLM_WORD_TIMEOUT", analyzer.DefaultWordAnalysisTimeout),
		InterpretationTimeout: getEnvDuration("LLM_INTERPRETATION_TIMEOUT", analyzer.DefaultInterpretationTimeout),
		TranslationTimeout:    getEnvDuration("TRANSLATION_TIMEOUT", analyzer.DefaultTranslationTimeout),
		BatchConcurrency:      getEnvInt("BATCH_CONCURRENCY", 1),

		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 10),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		MetricsAddr:       getEnv("METRICS_ADDR", ":9090"),
		OTLPEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error
	switch c.LLMProvider {
	case llm.ProviderOllama:
	case llm.ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.WordTimeout <= 0 {
		errs = append(errs, errors.New("LLM_WORD_TIMEOUT must be positive"))
	}
	if c.InterpretationTimeout <= 0 {
		errs = append(errs, errors.New("LLM_INTERPRETATION_TIMEOUT must be positive"))
	}
	if c.TranslationTimeout <= 0 {
		errs = append(errs, errors.New("TRANSLATION_TIMEOUT must be positive"))
	}
	if c.BatchConcurrency < 1 {
		errs = append(errs, errors.New("BATCH_CONCURRENCY must be at least 1"))
	}
	if c.WorkerConcurrency < 1 {
		errs = append(errs, errors.New("WORKER_CONCURRENCY must be at least 1"))
	}
	if c.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required"))
	}
	return errors.Join(errs...)
}

// AnalyzerConfig returns the analyzer settings derived from c
func (c *Config) AnalyzerConfig() analyzer.Config {
	cfg := analyzer.DefaultConfig()
	cfg.Provider = c.LLMProvider
	cfg.Model = c.LLMModel
	cfg.WordAnalysisTimeout = c.WordTimeout
	cfg.InterpretationTimeout = c.InterpretationTimeout
	cfg.TranslationTimeout = c.TranslationTimeout
	cfg.BatchConcurrency = c.BatchConcurrency
	return cfg
}

// AnalyzerOptions returns the default per-message branch toggles
func (c *Config) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		EnableTranslation:     c.EnableTranslation,
		EnableLLM:             c.EnableLLM,
		EnableLLMWordAnalysis: c.EnableLLMWordAnalysis,
	}
}

// TranslationModel returns the model used for translation, defaulting to the analysis model
func (c *Config) TranslationModel() string {
	if c.LLMTranslationModel != "" {
		return c.LLMTranslationModel
	}
	return c.LLMModel
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		value = strings.ToLower(value)
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return n
}

// getEnvDuration accepts Go durations ("20s") or whole seconds ("20")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	slog.Warn("invalid duration in environment, using default", "key", key, "value", value, "default", defaultValue)
	return defaultValue
}
