package domain

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,15}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidPhone applies the phone format check after stripping whitespace.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(stripSpace(phone))
}

// ValidEmail applies a shallow address format check.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizePhone drops whitespace and separators so formatted numbers compare equal.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		switch {
		case unicode.IsSpace(r), r == '-', r == '(', r == ')':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
