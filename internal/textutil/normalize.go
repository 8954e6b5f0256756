package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	hashtagPattern    = regexp.MustCompile(`#(\w+)`)

	titleCaser = cases.Title(language.English)
)

// NormalizeInput collapses whitespace and lowercases text so semantically
// identical inputs share a cache key.
func NormalizeInput(text string) string {
	trimmed := strings.TrimSpace(strings.ToLower(text))
	if trimmed == "" {
		return ""
	}
	return whitespacePattern.ReplaceAllString(trimmed, " ")
}

// NormalizePersonName strips and collapses whitespace and Title Cases the
// result ("john doe" -> "John Doe").
func NormalizePersonName(name string) string {
	cleaned := whitespacePattern.ReplaceAllString(strings.TrimSpace(name), " ")
	if cleaned == "" {
		return ""
	}
	return titleCaser.String(cleaned)
}

// ExtractTags returns the unique lowercase hashtags found in text, in order
// of first appearance and without the # prefix.
func ExtractTags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, match := range matches {
		tag := strings.ToLower(match[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
