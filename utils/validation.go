// utils/validation.go
package utils

import (
	"math"
	"regexp"
	"strings"
)

var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")
	return phoneRegex.MatchString(cleaned)
}

// DigitsOnly strips everything but digits, the form the messaging API wants.
func DigitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeIndianPhone strips any existing +91 country prefix and non-digit
// characters, then re-prefixes +91. Returns "" when nothing usable remains.
func NormalizeIndianPhone(phone string) string {
	trimmed := strings.TrimPrefix(phone, "+")
	trimmed = strings.TrimPrefix(trimmed, "91")
	digits := DigitsOnly(trimmed)
	if digits == "" {
		return ""
	}
	return "+91" + digits
}

// Round2 rounds half-up to 2 decimal places, the precision all monetary
// values are stored at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
