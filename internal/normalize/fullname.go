package normalize

import (
	"strings"
)

// ParseFullName splits a full name into first and last name components.
//
// A trailing generational suffix (Jr, Sr, roman numerals) is detached
// before splitting and reattached to the last name afterwards. The
// remaining parts resolve as: zero parts yields two empty strings, one
// part becomes the last name, two parts map to first/last in order, and
// three or more parts join everything but the final token into the first
// name.
func ParseFullName(full string) (first, last string) {
	parts := strings.Fields(full)

	suffix := ""
	if len(parts) > 1 {
		if canonical, ok := nameSuffixes[strings.ToUpper(parts[len(parts)-1])]; ok {
			suffix = canonical
			parts = parts[:len(parts)-1]
		}
	}

	switch len(parts) {
	case 0:
		// Nothing usable; the caller substitutes placeholders.
	case 1:
		last = parts[0]
	case 2:
		first = parts[0]
		last = parts[1]
	default:
		first = strings.Join(parts[:len(parts)-1], " ")
		last = parts[len(parts)-1]
	}

	if suffix != "" {
		if last == "" {
			last = suffix
		} else {
			last = last + " " + suffix
		}
	}
	return first, last
}
