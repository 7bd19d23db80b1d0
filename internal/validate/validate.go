// Package validate holds the pure input validators. Both functions normalize
// their input to the canonical stored form or return the package sentinel;
// they never panic and never touch the database.
package validate

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidEmail = errors.New("invalid email id")
)

// separators tolerated in raw phone input
var phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizePhone canonicalizes a phone number: separators are stripped, a
// single leading "+" is kept, and the remaining 7-15 characters must all be
// digits (E.164 length bounds). The result fits the 50-char phone column.
func NormalizePhone(raw string) (string, error) {
	s := phoneSeparators.Replace(strings.TrimSpace(raw))

	prefix := ""
	if strings.HasPrefix(s, "+") {
		prefix = "+"
		s = s[1:]
	}

	if len(s) < 7 || len(s) > 15 {
		return "", ErrInvalidPhone
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return "", ErrInvalidPhone
		}
	}

	return prefix + s, nil
}

// NormalizeEmail canonicalizes an email address: surrounding whitespace is
// trimmed and the address is lowercased. The shape check is deliberately
// loose (one "@", dotted domain); the result fits the 255-char email column.
func NormalizeEmail(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	if len(s) == 0 || len(s) > 254 {
		return "", ErrInvalidEmail
	}
	if !emailPattern.MatchString(s) {
		return "", ErrInvalidEmail
	}

	return s, nil
}
