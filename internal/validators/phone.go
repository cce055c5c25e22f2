package validators

import "strings"

// NormalizePhone keeps only the digits of a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsPhoneValid accepts Brazilian numbers with area code, with or without
// the 55 country prefix.
func IsPhoneValid(digits string) bool {
	n := len(digits)
	if strings.HasPrefix(digits, "55") && n >= 12 {
		n -= 2
	}
	return n == 10 || n == 11
}
