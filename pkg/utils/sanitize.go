package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// SanitizeHTML escapes HTML entities to prevent XSS
func SanitizeHTML(input string) string {
	return html.EscapeString(input)
}

// StripHTML removes all HTML tags from a string
func StripHTML(input string) string {
	return htmlTagRegex.ReplaceAllString(input, "")
}

// Preview shortens s to at most n runes, adding "..." when something was cut.
func Preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
