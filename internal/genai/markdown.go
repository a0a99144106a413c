package genai

import "strings"

// StripLeadingMarkdown removes stray formatting the model sometimes prefixes
// to plain-text output: an opening code fence and leading heading markers.
// It is a pure text transform for presentation; stored content is whatever
// the caller decides to keep.
func StripLeadingMarkdown(s string) string {
	trimmed := strings.TrimLeft(s, " \t\r\n")

	if strings.HasPrefix(trimmed, "```") {
		if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
			trimmed = trimmed[idx+1:]
		} else {
			trimmed = strings.TrimPrefix(trimmed, "```")
		}
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimLeft(trimmed, "\r\n")
	}

	for strings.HasPrefix(trimmed, "#") {
		trimmed = strings.TrimPrefix(trimmed, "#")
	}
	trimmed = strings.TrimLeft(trimmed, " ")

	return strings.TrimRight(trimmed, " \t\r\n")
}
