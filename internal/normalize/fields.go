package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts lists the date formats accepted by Date, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
}

// Int parses an integer field. A decimal-looking float string is accepted
// and truncated ("1250.0" parses as 1250). Returns nil on unparseable or
// empty input.
func Int(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}

// Float parses a floating point field. Returns nil on unparseable or empty
// input.
func Float(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Currency parses a monetary field, tolerating "$" and "," formatting
// ("$1,250,000.50"). Returns nil when the remainder is not numeric.
func Currency(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// Date parses a date field against the supported layouts in order.
// Returns nil when no layout matches.
func Date(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Bool parses the "1"/"0" boolean convention used by PropertyRadar
// exports. Any other value, including blanks, returns nil.
func Bool(raw string) *bool {
	switch strings.TrimSpace(raw) {
	case "1":
		v := true
		return &v
	case "0":
		v := false
		return &v
	default:
		return nil
	}
}
