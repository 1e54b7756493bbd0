package matching

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Strategy selects which label of a Source is matched.
type Strategy string

const (
	StrategyTitle  Strategy = "title"
	StrategyFolder Strategy = "folder"
	StrategyBoth   Strategy = "both"
)

// ParseStrategy validates a strategy name; empty means StrategyBoth.
func ParseStrategy(value string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(value))); s {
	case "":
		return StrategyBoth, nil
	case StrategyTitle, StrategyFolder, StrategyBoth:
		return s, nil
	default:
		return "", fmt.Errorf("unknown match strategy %q (want title, folder or both)", value)
	}
}

// Source is one external descriptor: its Title, the name of the folder that
// holds it, and the descriptor file itself.
type Source struct {
	Title  string
	Folder string
	Path   string
}

// Status classifies a Decision.
type Status string

const (
	StatusMatched      Status = "matched"
	StatusBelowMinimum Status = "below_threshold"
	StatusNoCandidate  Status = "no_candidate"
)

// Decision records the outcome for one Source.
type Decision struct {
	Source Source
	// Path is the chosen archive, empty unless Status is StatusMatched.
	Path  string
	Score float64
	// Basis is "title" or "folder".
	Basis  string
	Status Status
}

// Assignment is the result of a matching pass.
type Assignment struct {
	Decisions []Decision
	Log       []string
	Matched   int
}

// Matches returns the matched decisions in source order.
func (a Assignment) Matches() []Decision {
	out := make([]Decision, 0, a.Matched)
	for _, d := range a.Decisions {
		if d.Status == StatusMatched {
			out = append(out, d)
		}
	}
	return out
}

// Assign matches every source against paths in source order. A source is
// accepted when its best score reaches threshold; the chosen archive is then
// unavailable to later sources of the same pass. With StrategyBoth the folder
// label replaces the title result only when it scores strictly higher.
func Assign(sources []Source, paths []string, strategy Strategy, threshold float64) Assignment {
	if strategy == "" {
		strategy = StrategyBoth
	}
	candidates := Candidates(paths)
	used := NewBitset(len(candidates))
	result := Assignment{Decisions: make([]Decision, 0, len(sources))}

	for _, src := range sources {
		best, bestScore, basis := -1, 0.0, ""
		if strategy == StrategyTitle || strategy == StrategyBoth {
			if i, s := BestMatch(src.Title, candidates, used); i >= 0 && s > bestScore {
				best, bestScore, basis = i, s, "title"
			}
		}
		if strategy == StrategyFolder || strategy == StrategyBoth {
			if i, s := BestMatch(src.Folder, candidates, used); i >= 0 && s > bestScore {
				best, bestScore, basis = i, s, "folder"
			}
		}

		d := Decision{Source: src, Score: bestScore, Basis: basis}
		switch {
		case best < 0:
			d.Status = StatusNoCandidate
			result.Log = append(result.Log, fmt.Sprintf("skipped: no candidate -> Title=%q, Folder=%q", src.Title, src.Folder))
		case bestScore < threshold:
			d.Status = StatusBelowMinimum
			result.Log = append(result.Log, fmt.Sprintf("skipped: score %.2f below %.2f -> Title=%q, Folder=%q (best %s)",
				bestScore, threshold, src.Title, src.Folder, filepath.Base(candidates[best].Path)))
		default:
			d.Status = StatusMatched
			d.Path = candidates[best].Path
			used.Set(best)
			result.Matched++
			result.Log = append(result.Log, fmt.Sprintf("matched (%.2f, %s): %q | %q -> %s",
				bestScore, basis, src.Title, src.Folder, filepath.Base(d.Path)))
		}
		result.Decisions = append(result.Decisions, d)
	}
	return result
}
