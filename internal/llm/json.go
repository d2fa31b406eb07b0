package llm

import (
	"encoding/json"
	"fmt"
)

// DecodeInto locates the first balanced JSON object embedded anywhere in
// the collaborator's output and unmarshals it into v. Providers wrap
// JSON in prose and code fences often enough that a strict parse would
// throw away usable responses.
func DecodeInto(output string, v any) error {
	span, err := firstObject(output)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return fmt.Errorf("unmarshal embedded object: %w", err)
	}
	return nil
}

// firstObject returns the first balanced {...} span in s, accounting for
// braces inside JSON strings and escape sequences
func firstObject(s string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"' && start >= 0:
			inString = !inString
		case inString:
		case c == '{':
			if start < 0 {
				start = i
			}
			depth++
		case c == '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("no balanced JSON object in output")
}
