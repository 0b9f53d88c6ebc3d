package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pushp314/devconnect-chat/pkg/errors"
	"github.com/pushp314/devconnect-chat/pkg/utils"
)

const MaxMessageLength = 8000

var (
	scriptTagRegex = regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`)
	onEventRegex   = regexp.MustCompile(`(?i)\s+on\w+\s*=`)
)

// SanitizeMessageContent strips script and inline handlers, escapes HTML and
// enforces the length limits.
func SanitizeMessageContent(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", errors.BadRequest("Message content is required")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return "", errors.BadRequest("Message exceeds maximum length")
	}

	content = scriptTagRegex.ReplaceAllString(content, "")
	content = onEventRegex.ReplaceAllString(content, " ")
	content = utils.SanitizeHTML(content)
	content = strings.TrimSpace(content)

	if content == "" {
		return "", errors.BadRequest("Message cannot be empty after sanitization")
	}
	return content, nil
}
