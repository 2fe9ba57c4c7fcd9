package utils

import "strings"

// CanonicalPhone normalizes an Indian phone number to the +91XXXXXXXXXX form.
// Every lookup site must pass numbers through here so that guest orders and
// registered users match regardless of how the client formatted the number.
// Input that does not contain at least ten digits is returned trimmed as-is.
func CanonicalPhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) < 10 {
		return strings.TrimSpace(raw)
	}

	return "+91" + d[len(d)-10:]
}

// PhoneDigits returns the bare ten-digit national number, which SMS gateways
// expect instead of the prefixed canonical form.
func PhoneDigits(raw string) string {
	canonical := CanonicalPhone(raw)
	if strings.HasPrefix(canonical, "+91") && len(canonical) == 13 {
		return canonical[3:]
	}
	return canonical
}
