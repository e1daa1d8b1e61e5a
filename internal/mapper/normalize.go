// Package mapper resolves raw spreadsheet headers to simPRO template
// columns. Resolution precedence is exact match, then alias match, then
// fuzzy containment, with first-claim-wins across headers.
package mapper

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a raw header for comparison: it strips a leading
// byte-order mark and surrounding whitespace, lowercases, turns hyphens and
// underscores into spaces, drops remaining punctuation, and collapses
// whitespace runs. It is pure, total and idempotent; two headers that
// normalize to the same string are identical for matching purposes.
func Normalize(raw string) string {
	s := strings.TrimPrefix(raw, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '-' || r == '_':
			b.WriteByte(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
