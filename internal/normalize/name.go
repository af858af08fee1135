// Package normalize provides pure, total normalization functions for the
// raw field strings found in PropertyRadar CSV exports. Every function is
// best-effort: unparseable input yields an explicit empty/nil result, never
// an error or a panic.
package normalize

import (
	"strings"
	"unicode"
)

// nameSuffixes maps generational suffix tokens to their canonical casing.
// Roman numerals stay uppercase; Jr/Sr are capitalized.
var nameSuffixes = map[string]string{
	"JR":   "Jr",
	"SR":   "Sr",
	"II":   "II",
	"III":  "III",
	"IV":   "IV",
	"V":    "V",
	"VI":   "VI",
	"VII":  "VII",
	"VIII": "VIII",
	"IX":   "IX",
	"X":    "X",
}

// Name converts a raw name string to canonical casing.
//
// Input that already contains mixed case is assumed to be correctly cased
// and is returned with only its whitespace collapsed. ALL-CAPS and
// all-lowercase input is converted to title case with special handling for
// generational suffixes, hyphenated and apostrophe-containing segments
// (Mary-Jane, O'Brien), and Mc/Mac prefixes (McDonald, MacArthur).
func Name(raw string) string {
	s := collapseWhitespace(raw)
	if s == "" {
		return ""
	}
	if hasLowercase(s) && s != strings.ToLower(s) {
		// Mixed case: trust the source.
		return s
	}

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = caseNameWord(w)
	}
	return strings.Join(words, " ")
}

// caseNameWord cases a single whitespace-delimited name word.
func caseNameWord(w string) string {
	if canonical, ok := nameSuffixes[strings.ToUpper(w)]; ok {
		return canonical
	}
	if len(w) == 1 {
		return strings.ToUpper(w)
	}

	// Hyphenated and apostrophe-containing words are cased per segment.
	parts := strings.Split(w, "-")
	for i, part := range parts {
		subs := strings.Split(part, "'")
		for j, sub := range subs {
			subs[j] = caseNameSegment(sub)
		}
		parts[i] = strings.Join(subs, "'")
	}
	return strings.Join(parts, "-")
}

// caseNameSegment title-cases one segment, applying the Mc/Mac prefix rule.
func caseNameSegment(seg string) string {
	if seg == "" {
		return seg
	}

	upper := strings.ToUpper(seg)
	if len(seg) > 2 && strings.HasPrefix(upper, "MC") {
		return "Mc" + titleCase(seg[2:])
	}
	// Mac only applies when a real name follows the prefix, so MACK stays
	// Mack rather than becoming MacK.
	if len(seg) > 4 && strings.HasPrefix(upper, "MAC") {
		return "Mac" + titleCase(seg[3:])
	}
	return titleCase(seg)
}

// titleCase uppercases the first letter and lowercases the rest.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// hasLowercase reports whether s contains at least one lowercase letter.
func hasLowercase(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// collapseWhitespace trims s and collapses internal runs of whitespace to a
// single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
