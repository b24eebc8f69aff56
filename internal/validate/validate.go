// Package validate holds the input rules shared by registration and profile
// updates.
package validate

import (
	"regexp"
	"strings"
	"unicode"
)

// local@domain.tld, no whitespace anywhere.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPassword enforces the password policy: at least 8 characters with
// one lowercase letter, one uppercase letter, and one digit.
func IsValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// Normalize derives the lowercase shadow value used for case-insensitive
// uniqueness and lookup.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
