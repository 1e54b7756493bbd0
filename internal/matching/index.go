package matching

import (
	"regexp"
	"strconv"
	"strings"

	"mangatag/internal/textutil"
)

// Unit is the coarse kind of a numbered item.
type Unit int

const (
	UnitNone Unit = iota
	UnitVolume
	UnitChapter
)

func (u Unit) String() string {
	switch u {
	case UnitVolume:
		return "volume"
	case UnitChapter:
		return "chapter"
	default:
		return "none"
	}
}

// ClassifyUnit reports whether text carries a volume (卷) or chapter (回, 話,
// 话) marker. Volume wins when both appear.
func ClassifyUnit(text string) Unit {
	switch {
	case strings.Contains(text, "卷"):
		return UnitVolume
	case strings.ContainsAny(text, "回話话"):
		return UnitChapter
	default:
		return UnitNone
	}
}

// Index is a chapter number with an optional sub-chapter, as in 93.2.
type Index struct {
	Main   int
	Sub    int
	HasSub bool
}

func (i Index) String() string {
	if i.HasSub {
		return strconv.Itoa(i.Main) + "." + strconv.Itoa(i.Sub)
	}
	return strconv.Itoa(i.Main)
}

var (
	pageCountPattern = regexp.MustCompile(`(?i)[-_\s][0-9]{1,4}p\b`)

	// Tried in order; the first hit wins.
	indexPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[第连載载]?\s*([0-9]{1,4})[._\-＿\s]+([0-9]{1,2})\s*[話话]`),
		regexp.MustCompile(`[第连載载]?\s*([0-9]{1,4})[._\-＿\s]+([0-9]{1,2})(?:[^0-9]|$)`),
		regexp.MustCompile(`[第连載载]?\s*([0-9]{1,4})\s*[話话]`),
		regexp.MustCompile(`^[^0-9]*?([0-9]{1,4})(?:[^0-9]|$)`),
	}
)

// ExtractChapterIndex parses a chapter index out of a title or file name.
// Page count suffixes such as "_24p" are ignored. Accepted shapes include
// "第093.2話", "连载第093_2話_24p", "093話" and "093-2".
func ExtractChapterIndex(text string) (Index, bool) {
	cleaned := pageCountPattern.ReplaceAllString(textutil.Width(text), " ")
	for _, pattern := range indexPatterns {
		m := pattern.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		main, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		idx := Index{Main: main}
		if len(m) > 2 && m[2] != "" {
			if sub, err := strconv.Atoi(m[2]); err == nil {
				idx.Sub, idx.HasSub = sub, true
			}
		}
		return idx, true
	}
	return Index{}, false
}
