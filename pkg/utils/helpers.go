package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// GenerateRequestID generates a unique request ID for tracking
func GenerateRequestID() string {
	return uuid.New().String()
}

// CollapseWhitespace trims the string and collapses internal runs of
// whitespace (newlines included) into single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// GetStringOrDefault returns the value if not empty, otherwise returns the default
func GetStringOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

// ContainsFold reports whether substr appears in s under case folding.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
