package session

import "strings"

// CountryPrefix is the Spanish country code used on WhatsApp phone IDs.
const CountryPrefix = "34"

// NormalizePhone reduces any phone representation (chat IDs, prefixed or
// national numbers, formatted input) to the canonical prefixed form used as
// the session key: country prefix + 9-digit national number.
//
// A 9-digit number gets the prefix added; an 11+-digit number already
// starting with the prefix is kept; anything longer is truncated to its last
// 9 digits and prefixed. Normalization is idempotent.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 9:
		return CountryPrefix + digits
	case len(digits) >= 11 && strings.HasPrefix(digits, CountryPrefix):
		return digits
	case len(digits) > 9:
		return CountryPrefix + digits[len(digits)-9:]
	default:
		return digits
	}
}

// NationalNumber strips the country prefix, returning the 9-digit national
// number stored on booking records.
func NationalNumber(raw string) string {
	normalized := NormalizePhone(raw)
	if len(normalized) > 9 {
		return normalized[len(normalized)-9:]
	}
	return normalized
}
