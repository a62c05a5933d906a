package ai

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject pulls the first brace-delimited JSON object out of
// free-form model text. Models regularly wrap their answer in prose or
// Markdown fences; the contract here is "the reply contains one object",
// taken greedily from the first '{' to the last '}'. Returns false when no
// parsable object is present.
func ExtractJSONObject(raw string) (map[string]any, bool) {
	s := stripFences(raw)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(s[start:end+1]), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

// stripFences removes ```json / ``` wrappers when the model ignores the
// "raw JSON only" instruction.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
