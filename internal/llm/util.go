// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock isolates the JSON payload in an LLM response. It removes
// markdown code block wrappers and drops conversational preamble or trailing
// text around the first balanced JSON object or array. LLMs often wrap JSON
// in ```json ... ``` blocks or add commentary even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return isolateJSON(strings.TrimSpace(text))
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			// If first line looks like a language identifier (no spaces, short), skip it
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return isolateJSON(strings.TrimSpace(text))
	}

	return isolateJSON(text)
}

// isolateJSON returns the first balanced JSON object or array in text, or
// text unchanged when none is found.
func isolateJSON(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}

	candidate := text[start:]
	var extracted string
	if candidate[0] == '{' {
		extracted = extractJSONObject(candidate)
	} else {
		extracted = extractJSONArray(candidate)
	}
	if extracted == "" {
		return text
	}
	return extracted
}

// extractJSONObject returns the balanced JSON object at the start of text,
// or "" when text does not start with one.
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced JSON array at the start of text,
// or "" when text does not start with one.
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

// extractBalanced scans for the matching close delimiter, tracking JSON
// string boundaries so delimiters inside strings do not affect the depth.
func extractBalanced(text string, open, close byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case open:
			if !inString {
				depth++
			}
		case close:
			if !inString {
				depth--
				if depth == 0 {
					return text[:i+1]
				}
			}
		}
	}
	return ""
}
