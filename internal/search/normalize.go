package search

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeTitle folds a song title into a canonical comparison form:
// unicode-decomposed, ASCII-only, lowercased, punctuation stripped.
// Rhythm game titles are full of stylized punctuation ("V -neu-",
// "FREEDOM DiVE↓") that upstream services rarely reproduce exactly.
func NormalizeTitle(title string) string {
	s := norm.NFKD.String(title)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
