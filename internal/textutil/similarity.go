package textutil

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio returns a symmetric similarity in [0,1] between the normalized forms
// of a and b: 1 - levenshtein(a, b) / max(len(a), len(b)), counted in runes.
// Two strings that normalize to empty are identical (1.0).
func Ratio(a, b string) float64 {
	return NormalizedRatio(Normalize(a), Normalize(b))
}

// NormalizedRatio is Ratio for inputs that were already normalized.
func NormalizedRatio(a, b string) float64 {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
