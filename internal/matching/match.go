package matching

import (
	"mangatag/internal/textutil"
)

const (
	scoreExact     = 1.0
	scoreSameIndex = 0.99
)

type query struct {
	normalized string
	index      Index
	hasIndex   bool
	unit       Unit
}

func newQuery(text string) query {
	q := query{
		normalized: textutil.Normalize(text),
		unit:       ClassifyUnit(text),
	}
	q.index, q.hasIndex = ExtractChapterIndex(text)
	return q
}

// score compares a query with one candidate. When both sides carry a
// chapter index, any disagreement (a sub-chapter present on one side only
// included) is a hard mismatch even if the normalized texts coincide.
func (q query) score(c Candidate) float64 {
	if q.unit != UnitNone && c.unit != UnitNone && q.unit != c.unit {
		return 0
	}
	bothIndexed := q.hasIndex && c.hasIndex
	if bothIndexed && q.index != c.index {
		return 0
	}
	switch {
	case q.normalized != "" && q.normalized == c.normalized:
		return scoreExact
	case bothIndexed:
		return scoreSameIndex
	default:
		return textutil.NormalizedRatio(q.normalized, c.normalized)
	}
}

// Score compares query with a single candidate name (without extension).
func Score(query, name string) float64 {
	return newQuery(query).score(newCandidate(name, name))
}

// BestMatch returns the index into candidates of the best scoring member not
// marked in used, and its score. It returns -1 when no candidate scores above
// zero. Ties keep the earliest candidate.
func BestMatch(text string, candidates []Candidate, used Bitset) (int, float64) {
	q := newQuery(text)
	best, bestScore := -1, 0.0
	for i, c := range candidates {
		if used.Has(i) {
			continue
		}
		if s := q.score(c); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best, bestScore
}

// BestMatchPath is BestMatch over plain paths. It returns an empty path when
// nothing matches.
func BestMatchPath(text string, paths []string) (string, float64) {
	candidates := Candidates(paths)
	i, s := BestMatch(text, candidates, nil)
	if i < 0 {
		return "", 0
	}
	return candidates[i].Path, s
}
