package llm

import (
	"errors"
	"strings"
)

var errNoJSON = errors.New("no JSON object in completion")

// ExtractJSON returns the JSON document inside a completion. It strips markdown code fences and
// any prose around the outermost object or array.
func ExtractJSON(text string) (string, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		// Strip leading ```lang and trailing ```
		if nl := strings.IndexByte(s, '\n'); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.Trim(s, "`")
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return "", errNoJSON
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return "", errNoJSON
	}
	return s[start : end+1], nil
}
