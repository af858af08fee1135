package normalize

import (
	"strings"
)

// City converts a raw city name to canonical casing. Mixed-case input is
// preserved (same heuristic as Name); ALL-CAPS or all-lowercase input is
// title-cased word by word, with hyphenated segments cased independently
// (WINSTON-SALEM becomes Winston-Salem).
func City(raw string) string {
	s := collapseWhitespace(raw)
	if s == "" {
		return ""
	}
	if hasLowercase(s) && s != strings.ToLower(s) {
		return s
	}

	words := strings.Fields(s)
	for i, w := range words {
		parts := strings.Split(w, "-")
		for j, part := range parts {
			parts[j] = titleCase(part)
		}
		words[i] = strings.Join(parts, "-")
	}
	return strings.Join(words, " ")
}
