package llm

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// DecodeJSON unmarshals a JSON object from model output. Models sometimes wrap
// the object in prose or code fences, so when the text is not valid JSON as-is
// the span from the first '{' to the last '}' is decoded instead.
func DecodeJSON(output string, v any) error {
	s := strings.TrimSpace(output)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}

	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return fmt.Errorf("failed to unmarshal extracted JSON (len=%d): %w", len(sub), err)
	}
	return nil
}
