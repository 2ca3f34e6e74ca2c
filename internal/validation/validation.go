package validation

import (
	"regexp"
	"time"
	"unicode"
)

// Pure input predicates gating form submissions. No I/O, no side effects.

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether s has a local-part "@" domain "." tld shape.
// Deliberately pragmatic rather than RFC-complete.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// StrongPassword reports whether s is at least 8 characters and contains at
// least one uppercase letter and one digit.
func StrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}

// ValidMobile reports whether s is exactly 10 numeric digits.
func ValidMobile(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidSaleDate reports whether d does not fall after today.
func ValidSaleDate(d, today time.Time) bool {
	return !d.After(today)
}
