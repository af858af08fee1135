package normalize

import (
	"regexp"
	"strings"
)

// poBoxPattern matches the recognized post office box spellings with the
// box number captured.
var poBoxPattern = regexp.MustCompile(`(?i)^(?:P\.?\s*O\.?\s*BOX|POST\s+OFFICE\s+BOX)\s+(\S+)$`)

// directionals maps full directional words to their postal abbreviations.
// Already-abbreviated directionals map to themselves so they pass through
// with canonical casing.
var directionals = map[string]string{
	"NORTH":     "N",
	"SOUTH":     "S",
	"EAST":      "E",
	"WEST":      "W",
	"NORTHEAST": "NE",
	"NORTHWEST": "NW",
	"SOUTHEAST": "SE",
	"SOUTHWEST": "SW",
	"N":         "N",
	"S":         "S",
	"E":         "E",
	"W":         "W",
	"NE":        "NE",
	"NW":        "NW",
	"SE":        "SE",
	"SW":        "SW",
}

// streetSuffixes maps street suffix words to standard abbreviations. The
// map is bidirectional-safe: abbreviated forms map to their own canonical
// casing.
var streetSuffixes = map[string]string{
	"STREET":    "St",
	"ST":        "St",
	"AVENUE":    "Ave",
	"AVE":       "Ave",
	"BOULEVARD": "Blvd",
	"BLVD":      "Blvd",
	"DRIVE":     "Dr",
	"DR":        "Dr",
	"LANE":      "Ln",
	"LN":        "Ln",
	"ROAD":      "Rd",
	"RD":        "Rd",
	"COURT":     "Ct",
	"CT":        "Ct",
	"CIRCLE":    "Cir",
	"CIR":       "Cir",
	"PLACE":     "Pl",
	"PL":        "Pl",
	"TERRACE":   "Ter",
	"TER":       "Ter",
	"WAY":       "Way",
	"HIGHWAY":   "Hwy",
	"HWY":       "Hwy",
	"PARKWAY":   "Pkwy",
	"PKWY":      "Pkwy",
	"TRAIL":     "Trl",
	"TRL":       "Trl",
	"SQUARE":    "Sq",
	"SQ":        "Sq",
}

// unitDesignators maps secondary-unit words to canonical forms.
var unitDesignators = map[string]string{
	"APARTMENT": "Apt",
	"APT":       "Apt",
	"UNIT":      "Unit",
	"SUITE":     "Suite",
	"STE":       "Suite",
}

// Address converts a raw street address to canonical form: PO boxes are
// rewritten to "PO Box <n>", directionals and street suffixes are
// abbreviated, unit designators standardized, and remaining words
// title-cased. Tokens containing digits (house numbers, unit numbers like
// 4B) pass through unchanged.
func Address(raw string) string {
	s := collapseWhitespace(raw)
	if s == "" {
		return ""
	}

	if m := poBoxPattern.FindStringSubmatch(s); m != nil {
		return "PO Box " + m[1]
	}

	tokens := strings.Fields(s)
	for i, tok := range tokens {
		tokens[i] = caseAddressToken(tok)
	}
	return strings.Join(tokens, " ")
}

// caseAddressToken cases a single address token.
func caseAddressToken(tok string) string {
	if containsDigit(tok) {
		return tok
	}

	upper := strings.ToUpper(strings.TrimRight(tok, "."))
	if d, ok := directionals[upper]; ok {
		return d
	}
	if suffix, ok := streetSuffixes[upper]; ok {
		return suffix
	}
	if unit, ok := unitDesignators[upper]; ok {
		return unit
	}

	// Everything else title-cases, with hyphenated segments cased
	// independently.
	parts := strings.Split(tok, "-")
	for i, part := range parts {
		parts[i] = titleCase(part)
	}
	return strings.Join(parts, "-")
}

// containsDigit reports whether s contains at least one ASCII digit.
func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}
