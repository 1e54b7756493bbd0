package matching

import (
	"math/bits"
	"path/filepath"
	"slices"
	"strings"

	"mangatag/internal/textutil"
)

// Candidate is one archive prepared for scoring.
type Candidate struct {
	Path string
	// Name is the base name without extension.
	Name string

	normalized string
	index      Index
	hasIndex   bool
	unit       Unit
}

// Candidates prepares paths for matching, ordered by case-insensitive base
// name (then by path for stability).
func Candidates(paths []string) []Candidate {
	out := make([]Candidate, 0, len(paths))
	for _, path := range paths {
		base := filepath.Base(path)
		out = append(out, newCandidate(path, strings.TrimSuffix(base, filepath.Ext(base))))
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		if c := strings.Compare(strings.ToLower(filepath.Base(a.Path)), strings.ToLower(filepath.Base(b.Path))); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return out
}

func newCandidate(path, name string) Candidate {
	c := Candidate{
		Path:       path,
		Name:       name,
		normalized: textutil.Normalize(name),
		unit:       ClassifyUnit(name),
	}
	c.index, c.hasIndex = ExtractChapterIndex(name)
	return c
}

// Bitset marks candidates by index.
type Bitset []uint64

// NewBitset returns a set able to hold n members.
func NewBitset(n int) Bitset {
	return make(Bitset, (n+63)/64)
}

// Set marks i. It grows the set when needed.
func (b *Bitset) Set(i int) {
	word := i / 64
	for len(*b) <= word {
		*b = append(*b, 0)
	}
	(*b)[word] |= 1 << (uint(i) % 64)
}

// Has reports whether i is marked.
func (b Bitset) Has(i int) bool {
	word := i / 64
	if i < 0 || word >= len(b) {
		return false
	}
	return b[word]&(1<<(uint(i)%64)) != 0
}

// Count returns the number of marked members.
func (b Bitset) Count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}
