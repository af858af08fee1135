package normalize

// testAreaCode backfills 7-digit test-data numbers that carry no area code.
const testAreaCode = "555"

// Phone canonicalizes a phone number to international format (+1XXXXXXXXXX).
// All non-digit characters are stripped first. The second return value is
// false when the input cannot be interpreted as a phone number; such values
// must never be used as a contact dedup key.
//
// Accepted digit counts:
//
//	10 — standard US number, prefixed with +1
//	11 — must start with 1, prefixed with +
//	 7 — test-data shorthand, given the 555 placeholder area code
//	 8 — area code and number without a country code
func Phone(raw string) (string, bool) {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}

	switch len(digits) {
	case 10:
		return "+1" + string(digits), true
	case 11:
		if digits[0] == '1' {
			return "+" + string(digits), true
		}
		return "", false
	case 7:
		return "+1" + testAreaCode + string(digits), true
	case 8:
		return "+1" + string(digits), true
	default:
		return "", false
	}
}
