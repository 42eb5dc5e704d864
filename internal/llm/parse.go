package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnparsable indicates the model output held no recoverable JSON object.
var ErrUnparsable = errors.New("llm: unparsable model response")

// ParseObject decodes model output into v. It tries a strict parse first and
// falls back to the substring between the first '{' and the last '}', which
// recovers JSON that the model wrapped in prose.
func ParseObject(text string, v any) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("%w: empty response", ErrUnparsable)
	}

	strictErr := json.Unmarshal([]byte(trimmed), v)
	if strictErr == nil {
		return nil
	}

	candidate, ok := extractJSONObject(trimmed)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnparsable, strictErr)
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return nil
}

// extractJSONObject returns the first-'{'-to-last-'}' slice of text.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
