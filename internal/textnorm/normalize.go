package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text (NFKD) and removes the combining marks, so
// accented characters compare equal to their base form.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize converts text into the canonical matching form: diacritics
// stripped, lowercased, every run of characters outside [a-z0-9] collapsed to
// a single space, and the result trimmed. Empty input yields an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	if stripped, _, err := transform.String(stripMarks, text); err == nil {
		text = stripped
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// Contains reports whether needle appears as a normalized substring of
// haystack. Both arguments are normalized before the test; an empty needle
// never matches.
func Contains(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}

// ContainsWord reports whether the normalized needle appears in the
// normalized haystack on whole-word boundaries. Both strings are padded with
// spaces so a candidate cannot match inside a longer word ("cat" must not
// match "category").
func ContainsWord(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(" "+Normalize(haystack)+" ", " "+n+" ")
}
