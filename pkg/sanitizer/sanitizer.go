// Package sanitizer provides input normalization for marketplace data.
//
// All functions are idempotent and handle invalid input by returning empty
// strings rather than errors. Normalization runs before validation so the
// validator always sees canonical values.
package sanitizer

import (
	"strings"
	"unicode"
)

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

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail lowercases so lookups by email never miss on casing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCategory lowercases category tags so filter queries match
// regardless of how the host typed them.
func NormalizeCategory(category string) string {
	return strings.ToLower(TrimAndNormalize(category))
}
