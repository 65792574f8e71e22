package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName flattens a display name for comparison: lowercased,
// trimmed, inner whitespace removed.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// TitleFromSlug renders a URL slug segment as a display name:
// "st-mirren" becomes "St Mirren".
func TitleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// ContainsFold reports whether s contains substr ignoring case and
// whitespace, for loose user-supplied filters.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(NormalizeName(s), NormalizeName(substr))
}
