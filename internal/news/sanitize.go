package news

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeString trims surrounding whitespace.
func SanitizeString(value string) string {
	return strings.TrimSpace(value)
}

// SanitizeTags trims entries, drops empties, and removes duplicates.
// Comparison is case-insensitive; the first occurrence keeps its typed
// form, so ["AI", "ai", "", "Cloud"] becomes ["AI", "Cloud"].
func SanitizeTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, trimmed)
	}
	return cleaned
}

// Slugify lowercases the value and collapses every run of characters
// outside [a-z0-9] into a single hyphen.
func Slugify(value string) string {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return ""
	}
	slug := slugPattern.ReplaceAllString(trimmed, "-")
	return strings.Trim(slug, "-")
}

// BuildSlug derives the storage slug. An explicit slug wins over the
// title; when neither yields a usable value a fresh UUID stands in.
func BuildSlug(explicit, title string) string {
	base := Slugify(explicit)
	if base == "" {
		base = Slugify(title)
	}
	if base == "" {
		return uuid.NewString()
	}
	return base
}
