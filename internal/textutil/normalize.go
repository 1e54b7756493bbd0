package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold applies NFKC normalization and Unicode case folding without removing
// any characters. Casers carry state, so a fresh one is built per call.
func Fold(text string) string {
	if text == "" {
		return ""
	}
	return cases.Fold().String(norm.NFKC.String(text))
}

// Normalize canonicalizes text for comparison: NFKC, case folding, and
// removal of separators, whitespace, and punctuation. Letters (including CJK)
// and digits are kept in their original order.
func Normalize(text string) string {
	folded := Fold(text)
	if folded == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Width folds full-width forms to their narrow equivalents (NFKC) while
// keeping case, so digit-oriented regular expressions see ASCII digits.
func Width(text string) string {
	return norm.NFKC.String(text)
}
