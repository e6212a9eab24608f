package sanitizex

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanSingleLine sanitizes a single-line string by normalizing Unicode, trimming whitespace,
// removing control characters, and collapsing internal whitespace to a single ASCII space.
// It is suitable for fields that should not contain newlines or tabs, such as emails or codes.
func CleanSingleLine(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
				space = true
			}
		} else {
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}
