package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/sentimentanalyzer/internal/analyzer"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"LLM_PROVIDER", "LLM_MODEL", "ENABLE_TRANSLATION", "ENABLE_LLM", "ENABLE_LLM_WORD_ANALYSIS",
		"LLM_WORD_TIMEOUT", "LLM_INTERPRETATION_TIMEOUT", "TRANSLATION_TIMEOUT", "BATCH_CONCURRENCY", "WORKER_CONCURRENCY",
		"REDIS_ADDR", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.AppEnv)
	assert.Equal(t, "ollama", cfg.LLMProvider)
	assert.True(t, cfg.EnableTranslation)
	assert.False(t, cfg.EnableLLM)
	assert.False(t, cfg.EnableLLMWordAnalysis)
	assert.Equal(t, 20*time.Second, cfg.WordTimeout)
	assert.Equal(t, 20*time.Second, cfg.InterpretationTimeout)
	assert.Equal(t, 15*time.Second, cfg.TranslationTimeout)
	assert.Equal(t, 1, cfg.BatchConcurrency)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.OTLPEndpoint)
	assert.Equal(t, analyzer.DefaultOptions(), cfg.AnalyzerOptions())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("LLM_TRANSLATION_MODEL", "")
	t.Setenv("ENABLE_LLM", "yes")
	t.Setenv("ENABLE_LLM_WORD_ANALYSIS", "1")
	t.Setenv("ENABLE_TRANSLATION", "false")
	t.Setenv("LLM_WORD_TIMEOUT", "5s")
	t.Setenv("LLM_INTERPRETATION_TIMEOUT", "45")
	t.Setenv("TRANSLATION_TIMEOUT", "3s")
	t.Setenv("BATCH_CONCURRENCY", "4")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.TranslationModel(), "translation falls back to the analysis model")

	opts := cfg.AnalyzerOptions()
	assert.True(t, opts.EnableLLM)
	assert.True(t, opts.EnableLLMWordAnalysis)
	assert.False(t, opts.EnableTranslation)

	acfg := cfg.AnalyzerConfig()
	assert.Equal(t, "openai", acfg.Provider)
	assert.Equal(t, "gpt-4o-mini", acfg.Model)
	assert.Equal(t, 5*time.Second, acfg.WordAnalysisTimeout)
	assert.Equal(t, 45*time.Second, acfg.InterpretationTimeout)
	assert.Equal(t, 3*time.Second, acfg.TranslationTimeout)
	assert.Equal(t, 4, acfg.BatchConcurrency)
	assert.Equal(t, analyzer.DefaultSignificanceThreshold, acfg.SignificanceThreshold)
	assert.NoError(t, acfg.Validate())
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		message string
	}{
		{name: "unknown provider", env: map[string]string{"LLM_PROVIDER": "anthropic"}, message: "unknown LLM_PROVIDER"},
		{name: "openai without key", env: map[string]string{"LLM_PROVIDER": "openai", "OPENAI_API_KEY": ""}, message: "OPENAI_API_KEY"},
		{name: "negative timeout", env: map[string]string{"LLM_WORD_TIMEOUT": "-1s"}, message: "LLM_WORD_TIMEOUT"},
		{name: "zero translation timeout", env: map[string]string{"TRANSLATION_TIMEOUT": "0s"}, message: "TRANSLATION_TIMEOUT"},
		{name: "zero workers", env: map[string]string{"WORKER_CONCURRENCY": "0"}, message: "WORKER_CONCURRENCY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("test")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "notanumber")
	assert.Equal(t, 7, getEnvInt("TEST_INT", 7))

	t.Setenv("TEST_DURATION", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("TEST_DURATION", time.Minute))

	t.Setenv("TEST_BOOL", "TRUE")
	assert.True(t, getEnvBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL", "off")
	assert.False(t, getEnvBool("TEST_BOOL", true))

	assert.Equal(t, "fallback", getEnv("TEST_UNSET_KEY", "fallback"))
}
