// Package normalize provides utilities for normalizing and sanitizing data.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Email canonicalizes an email address for storage and index lookups.
// Lowercases and trims whitespace so "Alice@Example.COM " and
// "alice@example.com" resolve to the same account.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(sanitizeString(raw)))
}

// ISBN strips separators from an ISBN so the same physical edition always
// produces the same key, regardless of how the user typed it.
// "978-0-306-40615-7" -> "9780306406157". The trailing check character of
// an ISBN-10 may be "x"; it is uppercased.
//
// Returns empty string if the result isn't a plausible ISBN (10 or 13
// characters after cleanup).
func ISBN(raw string) string {
	var b strings.Builder
	for _, r := range sanitizeString(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteRune('X')
		case r == '-' || r == ' ':
			// separator, drop
		default:
			return ""
		}
	}

	s := b.String()
	if len(s) != 10 && len(s) != 13 {
		return ""
	}
	// "X" is only valid as the final check character of an ISBN-10.
	if i := strings.IndexByte(s, 'X'); i >= 0 && (len(s) != 10 || i != 9) {
		return ""
	}
	return s
}

// DisplayName cleans a user-supplied display name: Unicode NFC so visually
// identical names compare equal, null bytes and surrounding whitespace
// removed, internal runs of whitespace collapsed.
func DisplayName(raw string) string {
	s := norm.NFC.String(sanitizeString(raw))
	return strings.Join(strings.Fields(s), " ")
}

// sanitizeString removes null bytes from strings, which can cause
// issues in databases and JSON parsing.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 { // null byte
			return -1 // drop it
		}
		return r
	}, s)
}
