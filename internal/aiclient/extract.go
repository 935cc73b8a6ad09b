package aiclient

import (
	"errors"
	"fmt"
	"strings"
)

// StripFences removes a surrounding markdown code fence, if any.
func StripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:]
	} else {
		t = strings.TrimPrefix(t, "```")
	}
	if j := strings.LastIndex(t, "```"); j >= 0 {
		t = t[:j]
	}
	return strings.TrimSpace(t)
}

// ExtractJSONObject returns the outermost {...} span of s.
func ExtractJSONObject(s string) (string, error) {
	return extractSpan(s, '{', '}')
}

// ExtractJSONArray returns the outermost [...] span of s.
func ExtractJSONArray(s string) (string, error) {
	return extractSpan(s, '[', ']')
}

func extractSpan(s string, open, closing byte) (string, error) {
	t := StripFences(s)
	if t == "" {
		return "", errors.New("empty content")
	}
	start := strings.IndexByte(t, open)
	end := strings.LastIndexByte(t, closing)
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}
	return "", fmt.Errorf("could not locate JSON %c%c in: %q", open, closing, truncate(t, 200))
}
