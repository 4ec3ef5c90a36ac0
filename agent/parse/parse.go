// Package parse extracts a JSON object from raw model output.
//
// Generative backends wrap JSON in markdown code fences or stray
// whitespace; everything beyond stripping those fences is treated as a
// malformed response and reported upward verbatim. There is no bracket
// matching or repair: silently defaulting here would hide model
// misbehavior the orchestrator must react to.
package parse

import (
	"encoding/json"
	"strings"

	contractx "github.com/gitteach/agent-core/agent/contract"
)

// JSONObject strips leading/trailing code-fence markers, trims
// whitespace and strictly decodes the remainder as a JSON object.
func JSONObject(raw string) (map[string]any, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, &contractx.MalformedResponseError{Raw: raw}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, &contractx.MalformedResponseError{Raw: raw}
	}
	if obj == nil {
		return nil, &contractx.MalformedResponseError{Raw: raw}
	}
	return obj, nil
}

// StripFences removes a leading ``` block marker (with optional
// language tag) and a trailing ``` marker. Fences elsewhere in the
// text are left alone.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			tag := strings.TrimSpace(s[:idx])
			if isFenceTag(tag) {
				s = s[idx+1:]
			}
		} else {
			// single-line fenced payload like ```json {...}```
			s = strings.TrimPrefix(s, "json")
		}
	}

	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}

	return strings.TrimSpace(s)
}

// A fence tag is either empty or a short alphanumeric language name.
func isFenceTag(tag string) bool {
	if tag == "" {
		return true
	}
	if len(tag) > 16 {
		return false
	}
	for _, r := range tag {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// StringField returns the named field if it is present as a string.
func StringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ObjectField returns the named field if it is present as an object.
func ObjectField(obj map[string]any, key string) (map[string]any, bool) {
	v, ok := obj[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
