package tagsync

import (
	"maps"
	"slices"

	"mangatag/internal/table"
)

// Baseline maps a file name to its row as scanned. It is used only to decide
// whether a submitted row changed.
type Baseline map[string][]string

// BaselineFromTable captures every data row of text, keyed by file name and
// padded to the full row width. The first row for a key wins. Unparseable
// text yields an empty baseline.
func BaselineFromTable(text string) Baseline {
	rows, err := table.Parse(text)
	if err != nil {
		return Baseline{}
	}
	return baselineFromRows(table.StripHeader(rows))
}

func baselineFromRows(rows [][]string) Baseline {
	b := make(Baseline, len(rows))
	for _, row := range rows {
		key := table.Key(row)
		if key == "" {
			continue
		}
		if _, seen := b[key]; seen {
			continue
		}
		cells := table.Pad(row, table.Width)[:table.Width]
		cells[0] = key
		b[key] = cells
	}
	return b
}

// Unchanged reports whether row carries exactly the field values captured for
// key. A missing baseline entry counts as changed.
func (b Baseline) Unchanged(key string, row []string) bool {
	base, ok := b[key]
	if !ok {
		return false
	}
	cells := table.Pad(row, table.Width)
	return slices.Equal(base[1:], cells[1:table.Width])
}

// Rekey returns a copy of b in which the rows of renamed files move to their
// new names. Field values are kept as captured, so edits made before the
// rename still count as changes.
func (b Baseline) Rekey(renames map[string]string) Baseline {
	if b == nil {
		return nil
	}
	out := make(Baseline, len(b))
	for key, row := range b {
		if _, moved := renames[key]; moved {
			continue
		}
		out[key] = row
	}
	for _, oldKey := range slices.Sorted(maps.Keys(renames)) {
		row, ok := b[oldKey]
		if !ok {
			continue
		}
		newKey := renames[oldKey]
		moved := slices.Clone(row)
		moved[0] = newKey
		out[newKey] = moved
	}
	return out
}
