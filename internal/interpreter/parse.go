package interpreter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	// A single fenced block, optionally tagged with a language.
	fencedRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

	// First balanced brace span, supporting one level of nesting.
	braceRe = regexp.MustCompile(`(?s)\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
)

// parseObject recovers a JSON object from the model's reply. Three shapes
// are tried in order: the whole reply, a fenced code block, and the first
// balanced brace-delimited span.
func parseObject(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, nil
	}

	if m := fencedRe.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &obj); err == nil {
			return obj, nil
		}
	}

	if m := braceRe.FindString(text); m != "" {
		if err := json.Unmarshal([]byte(m), &obj); err == nil {
			return obj, nil
		}
	}

	return nil, fmt.Errorf("no JSON object found in response")
}
