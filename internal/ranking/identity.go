package ranking

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Identity is the aggregation key for a team: whitespace removed, lower-cased.
// Input is NFC-normalized first so pasted decomposed Hangul matches the
// composed spelling.
func Identity(teamName string) string {
	s := norm.NFC.String(teamName)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(s)
}

type divisionKey struct {
	identity string
	division string
}
