package analyzer

import (
	"errors"
	"time"
)

const (
	DefaultWordAnalysisTimeout   = 20 * time.Second
	DefaultInterpretationTimeout = 20 * time.Second
	DefaultTranslationTimeout    = 15 * time.Second
	DefaultMaxWordAnalysisChars  = 300

	// DefaultSignificanceThreshold is the |compound| a word needs to appear in model word analysis
	DefaultSignificanceThreshold = 0.2
	// DefaultEmotionalWordThreshold is the |compound| a word must exceed to count as most emotional
	DefaultEmotionalWordThreshold = 0.3
	DefaultMaxEmotionalWords      = 5
)

// Options toggles the optional pipeline branches for a single call
type Options struct {
	EnableTranslation     bool `json:"enableTranslation"`
	EnableLLM             bool `json:"enableLLM"`
	EnableLLMWordAnalysis bool `json:"enableLLMWordAnalysis"`
}

// DefaultOptions enables translation only
func DefaultOptions() Options {
	return Options{EnableTranslation: true}
}

// Config holds construction-time settings for an Analyzer
type Config struct {
	// Provider and Model select the chat model for word analysis and interpretation.
	// Empty values defer to the completer's defaults.
	Provider    string
	Model       string
	Temperature float64

	WordAnalysisTimeout   time.Duration
	InterpretationTimeout time.Duration
	// TranslationTimeout bounds the translator; a slow translation scores the original text
	TranslationTimeout   time.Duration
	MaxWordAnalysisChars int

	SignificanceThreshold  float64
	EmotionalWordThreshold float64
	MaxEmotionalWords      int

	// BatchConcurrency bounds AnalyzeBatch fan-out; 1 runs items sequentially
	BatchConcurrency int
}

// DefaultConfig returns the standard pipeline settings
func DefaultConfig() Config {
	return Config{
		WordAnalysisTimeout:    DefaultWordAnalysisTimeout,
		InterpretationTimeout:  DefaultInterpretationTimeout,
		TranslationTimeout:     DefaultTranslationTimeout,
		MaxWordAnalysisChars:   DefaultMaxWordAnalysisChars,
		SignificanceThreshold:  DefaultSignificanceThreshold,
		EmotionalWordThreshold: DefaultEmotionalWordThreshold,
		MaxEmotionalWords:      DefaultMaxEmotionalWords,
		BatchConcurrency:       1,
	}
}

// Validate reports settings that would make the pipeline misbehave
func (c Config) Validate() error {
	var errs []error
	if c.WordAnalysisTimeout <= 0 {
		errs = append(errs, errors.New("word analysis timeout must be positive"))
	}
	if c.InterpretationTimeout <= 0 {
		errs = append(errs, errors.New("interpretation timeout must be positive"))
	}
	if c.TranslationTimeout <= 0 {
		errs = append(errs, errors.New("translation timeout must be positive"))
	}
	if c.MaxWordAnalysisChars <= 0 {
		errs = append(errs, errors.New("max word analysis chars must be positive"))
	}
	if c.SignificanceThreshold < 0 || c.SignificanceThreshold > 1 {
		errs = append(errs, errors.New("significance threshold must be within [0,1]"))
	}
	if c.EmotionalWordThreshold < 0 || c.EmotionalWordThreshold > 1 {
		errs = append(errs, errors.New("emotional word threshold must be within [0,1]"))
	}
	if c.MaxEmotionalWords < 0 {
		errs = append(errs, errors.New("max emotional words must not be negative"))
	}
	if c.BatchConcurrency < 1 {
		errs = append(errs, errors.New("batch concurrency must be at least 1"))
	}
	return errors.Join(errs...)
}
