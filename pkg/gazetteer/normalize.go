package gazetteer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes free text for matching: lower-cased, combining
// diacritical marks stripped ("Montréal" and "Montreal" come out identical),
// surrounding whitespace trimmed.
//
// Catalog names at load time and queries at request time must both pass
// through here; matching breaks if either side skips it.
func Normalize(s string) string {
	lowered := strings.ToLower(s)

	// The transformer chain carries state, so it is built per call rather
	// than shared.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, lowered)
	if err != nil {
		return strings.TrimSpace(lowered)
	}
	return strings.TrimSpace(stripped)
}

// runeLen counts runes, not bytes. Index lengths and scores are rune-based.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
