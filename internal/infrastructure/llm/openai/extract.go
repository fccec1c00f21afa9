package openai

import (
	"encoding/json"
	"strings"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
)

// extractStrategy attempts to locate a JSON payload in a raw response body.
type extractStrategy func(string) (json.RawMessage, bool)

// extractStrategies are tried in priority order; the first structurally valid
// result wins.
var extractStrategies = []extractStrategy{
	extractDirect,
	extractFenced,
	extractBracketScan,
}

// extract locates the first JSON object/array in content that satisfies the
// schema's required top-level keys.
func extract(content string, schema entities.Schema) (json.RawMessage, bool) {
	for _, strategy := range extractStrategies {
		raw, ok := strategy(content)
		if !ok {
			continue
		}
		if conformsTo(raw, schema) {
			return raw, true
		}
	}
	return nil, false
}

// extractDirect parses the whole trimmed content as JSON.
func extractDirect(content string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, false
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, false
	}
	if !json.Valid([]byte(trimmed)) {
		return nil, false
	}
	return json.RawMessage(trimmed), true
}

// extractFenced parses the body of a markdown code fence.
func extractFenced(content string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(content)

	start := strings.Index(trimmed, "```")
	if start < 0 {
		return nil, false
	}
	body := trimmed[start+3:]
	body = strings.TrimPrefix(body, "json")

	end := strings.Index(body, "```")
	if end < 0 {
		return nil, false
	}
	return extractDirect(body[:end])
}

// extractBracketScan locates the outermost matching bracket pair, tolerating
// surrounding prose. String literals and escapes are respected so braces
// inside generated text do not break the scan.
func extractBracketScan(content string) (json.RawMessage, bool) {
	for i := 0; i < len(content); i++ {
		open := content[i]
		if open != '{' && open != '[' {
			continue
		}
		if end, ok := matchBracket(content, i); ok {
			candidate := content[i : end+1]
			if json.Valid([]byte(candidate)) {
				return json.RawMessage(candidate), true
			}
		}
	}
	return nil, false
}

// matchBracket returns the index of the bracket closing the one at start.
func matchBracket(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// conformsTo checks structural validity: the value is an object carrying the
// schema's required top-level keys, or an array when no keys are required.
func conformsTo(raw json.RawMessage, schema entities.Schema) bool {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return false
	}

	if trimmed[0] == '[' {
		return len(schema.Required) == 0
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	for _, key := range schema.Required {
		v, ok := obj[key]
		if !ok || string(v) == "null" {
			return false
		}
	}
	return true
}
