// Package sanitizer normalizes free-text user input before validation and
// storage.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims surrounding whitespace and collapses internal runs
// of whitespace into a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizePurpose cleans a booking's purpose line. Control characters are
// dropped so the value is safe for logs and plain-text notifications.
func NormalizePurpose(purpose string) string {
	var cleaned strings.Builder
	for _, r := range purpose {
		if !unicode.IsControl(r) {
			cleaned.WriteRune(r)
		}
	}
	return TrimAndNormalize(cleaned.String())
}

// NormalizeID lowercases and trims an identifier such as a resource id.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
