package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for empty or whitespace-only text. It is the only error
	// that reaches callers of the single-text pipeline.
	ErrInvalidInput = errors.New("invalid input: text must be a non-empty string")

	// ErrTranslationFailure wraps translator errors; the pipeline recovers by scoring the original text
	ErrTranslationFailure = errors.New("translation failed")

	// ErrRemoteTimeout marks a model call that did not finish within its budget
	ErrRemoteTimeout = errors.New("remote model call timed out")

	// ErrRemoteParse marks model output that could not be decoded or failed validation
	ErrRemoteParse = errors.New("remote model output could not be parsed")
)

// BatchItemError describes a failed item of a batch run
type BatchItemError struct {
	Index int
	Text  string
	Err   error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("batch item %d: %v", e.Index, e.Err)
}

func (e *BatchItemError) Unwrap() error {
	return e.Err
}

// fallbackReason returns a short label for metrics and logs
func fallbackReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrRemoteTimeout):
		return "timeout"
	case errors.Is(err, ErrRemoteParse):
		return "parse"
	default:
		return "error"
	}
}
