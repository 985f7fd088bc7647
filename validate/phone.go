package validate

import (
	"regexp"
	"strings"
)

// Ugandan mobile numbers: +256 followed by exactly nine digits.
var phonePattern = regexp.MustCompile(`^\+256\d{9}$`)

const maxPhoneLen = 13 // "+256" + 9 digits

// NormalizePhone nudges user input toward the +256XXXXXXXXX shape the server
// expects: a leading "0" or bare "+" is replaced by "+256", a bare "256" gets
// its "+", anything else is prefixed wholesale. The result is truncated to 13
// characters. Normalization does not guarantee validity; call ValidPhone on
// the result.
func NormalizePhone(input string) string {
	n := input
	if !strings.HasPrefix(n, "+256") {
		switch {
		case strings.HasPrefix(n, "+"):
			n = "+256" + n[1:]
		case strings.HasPrefix(n, "256"):
			n = "+" + n
		case strings.HasPrefix(n, "0"):
			n = "+256" + n[1:]
		default:
			n = "+256" + n
		}
	}
	if len(n) > maxPhoneLen {
		n = n[:maxPhoneLen]
	}
	return n
}

// ValidPhone reports whether number is a fully formed +256XXXXXXXXX number.
func ValidPhone(number string) bool {
	return phonePattern.MatchString(number)
}
