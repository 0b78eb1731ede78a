// Package textnorm provides case- and diacritic-insensitive text
// canonicalization plus word-boundary matching helpers used by the
// query rules. All functions are pure and never fail.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripper decomposes to NFD, drops combining marks, and recomposes,
// folding "Jujuý" to "Jujuy" and "ñ" to "n".
var stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s and removes diacritical marks.
// It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	folded, _, err := transform.String(stripper, strings.ToLower(s))
	if err != nil {
		// Invalid UTF-8 sequences pass through unchanged.
		return strings.ToLower(s)
	}
	return folded
}

// ContainsWord reports whether needle appears in haystack at a word
// boundary after both are normalized. "palpala" matches "en palpala?"
// but not "palpalazo".
func ContainsWord(haystack, needle string) bool {
	n := Normalize(strings.TrimSpace(needle))
	if n == "" {
		return false
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(n) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(Normalize(haystack))
}

// HasWordWithPrefix reports whether any whitespace-delimited word of the
// normalized text begins with the normalized root.
func HasWordWithPrefix(text, root string) bool {
	r := Normalize(root)
	if r == "" {
		return false
	}
	for _, w := range strings.Fields(Normalize(text)) {
		if strings.HasPrefix(w, r) {
			return true
		}
	}
	return false
}
