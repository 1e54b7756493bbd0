package tagsync

import (
	"cmp"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"mangatag/internal/comicinfo"
)

// SortMode selects the row order of a scan.
type SortMode string

const (
	// SortNumeric groups by the leading non-digit prefix, then by the first
	// integer run. Names without a number follow those with one.
	SortNumeric SortMode = "numeric"
	// SortLexical orders by case-insensitive file name.
	SortLexical SortMode = "lexical"
	// SortByNumber orders by the Number field of each descriptor; archives
	// without a parseable Number sort last.
	SortByNumber SortMode = "number"
)

// ParseSortMode converts a user supplied name into a SortMode.
func ParseSortMode(value string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "numeric":
		return SortNumeric, nil
	case "lexical", "lex", "alpha":
		return SortLexical, nil
	case "number", "by_number", "by-number":
		return SortByNumber, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q (want numeric, lexical or number)", value)
	}
}

type numericKey struct {
	prefix string
	digits string
	name   string
}

func newNumericKey(path string) numericKey {
	name := filepath.Base(path)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	split := strings.IndexFunc(base, isASCIIDigit)
	key := numericKey{name: strings.ToLower(name)}
	if split < 0 {
		key.prefix = strings.ToLower(base)
		return key
	}
	key.prefix = strings.ToLower(base[:split])
	end := split
	for end < len(base) && isASCIIDigit(rune(base[end])) {
		end++
	}
	key.digits = strings.TrimLeft(base[split:end], "0")
	if key.digits == "" {
		key.digits = "0"
	}
	return key
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// compareDigits orders two digit strings without leading zeros by value.
func compareDigits(a, b string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareNumeric(a, b numericKey) int {
	if c := strings.Compare(a.prefix, b.prefix); c != 0 {
		return c
	}
	aHas, bHas := a.digits != "", b.digits != ""
	switch {
	case aHas && !bHas:
		return -1
	case !aHas && bHas:
		return 1
	case aHas && bHas:
		if c := compareDigits(a.digits, b.digits); c != 0 {
			return c
		}
	}
	return strings.Compare(a.name, b.name)
}

func sortNumeric(paths []string) []string {
	keys := make(map[string]numericKey, len(paths))
	for _, p := range paths {
		keys[p] = newNumericKey(p)
	}
	out := slices.Clone(paths)
	slices.SortStableFunc(out, func(a, b string) int {
		return compareNumeric(keys[a], keys[b])
	})
	return out
}

func sortLexical(paths []string) []string {
	out := slices.Clone(paths)
	slices.SortStableFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(filepath.Base(a)), strings.ToLower(filepath.Base(b)))
	})
	return out
}

// parseNumber reads a Number field as an integer or decimal.
func parseNumber(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func sortByNumber(paths []string, descriptors map[string]comicinfo.Descriptor) []string {
	type key struct {
		has  bool
		num  float64
		name string
	}
	keys := make(map[string]key, len(paths))
	for _, p := range paths {
		k := key{name: strings.ToLower(filepath.Base(p))}
		if d, ok := descriptors[p]; ok {
			k.num, k.has = parseNumber(d.Number)
		}
		keys[p] = k
	}
	out := slices.Clone(paths)
	slices.SortStableFunc(out, func(a, b string) int {
		ka, kb := keys[a], keys[b]
		if ka.has != kb.has {
			if ka.has {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(ka.num, kb.num); c != 0 {
			return c
		}
		return strings.Compare(ka.name, kb.name)
	})
	return out
}
