package judge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSON strips markdown code fences and surrounding whitespace from a
// model response. Models often wrap JSON in ```json ... ``` blocks.
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// Decode parses a judgment response as T. It tolerates code fences and
// prose around the JSON by falling back to the outermost object or array
// in the text.
func Decode[T any](raw string) (T, error) {
	var v T
	s := CleanJSON(raw)
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v, nil
	}
	sliced, ok := outerJSON(s)
	if !ok {
		return v, fmt.Errorf("no JSON value in response")
	}
	if err := json.Unmarshal([]byte(sliced), &v); err != nil {
		return v, fmt.Errorf("parsing response JSON: %w", err)
	}
	return v, nil
}

// outerJSON slices from the first opening brace or bracket to its matching
// closer at the end of the text.
func outerJSON(s string) (string, bool) {
	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')

	start, closer := objStart, byte('}')
	if start < 0 || (arrStart >= 0 && arrStart < start) {
		start, closer = arrStart, ']'
	}
	if start < 0 {
		return "", false
	}

	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}
