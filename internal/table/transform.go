package table

import (
	"regexp"
	"slices"
	"strings"

	"mangatag/internal/scriptconv"
	"mangatag/internal/textutil"
)

// ResolveColumns expands the selection against the table's header (or the
// canonical header when includeHeader is false). AllColumns selects every
// non-key column; unknown names are dropped.
func ResolveColumns(text string, includeHeader bool, selected []string) []string {
	if len(selected) == 0 {
		return nil
	}
	headers := Headers
	if includeHeader {
		headers = HeaderOf(text)
	}
	var candidates []string
	for _, h := range headers {
		if h != "" && h != KeyColumn {
			candidates = append(candidates, h)
		}
	}
	if len(candidates) == 0 {
		candidates = Headers[1:]
	}
	if slices.Contains(selected, AllColumns) {
		return candidates
	}
	var out []string
	for _, col := range selected {
		col = strings.TrimSpace(col)
		if slices.Contains(candidates, col) {
			out = append(out, col)
		}
	}
	return out
}

// Apply runs fn over every selected cell of every data row. Columns are
// located by header text when the table carries a header, otherwise by the
// canonical position. The key column is never touched. On a parse failure or
// an empty selection text is returned unchanged.
func Apply(text string, includeHeader bool, columns []string, fn func(string) string) string {
	if text == "" || len(columns) == 0 {
		return text
	}
	rows, err := Parse(text)
	if err != nil || len(rows) == 0 {
		return text
	}
	hasHeader := includeHeader && IsHeader(rows[0])
	indices := columnIndices(rows[0], hasHeader, columns)
	if len(indices) == 0 {
		return text
	}
	need := slices.Max(indices) + 1
	for i, row := range rows {
		if i == 0 && hasHeader {
			continue
		}
		row = Pad(row, need)
		for _, j := range indices {
			row[j] = fn(row[j])
		}
		rows[i] = row
	}
	return Format(rows)
}

func columnIndices(header []string, hasHeader bool, columns []string) []int {
	lookup := Headers
	if hasHeader {
		lookup = make([]string, len(header))
		for i, cell := range header {
			lookup[i] = strings.TrimSpace(cell)
		}
	}
	var indices []int
	for _, col := range columns {
		idx := slices.Index(lookup, col)
		if idx > 0 && !slices.Contains(indices, idx) {
			indices = append(indices, idx)
		}
	}
	return indices
}

// Set overwrites the selected cells with value.
func Set(text string, includeHeader bool, columns []string, value string) string {
	cols := ResolveColumns(text, includeHeader, columns)
	return Apply(text, includeHeader, cols, func(string) string { return value })
}

// FindReplace replaces find with replace in the selected cells. With useRegex
// find is a regular expression and replace may reference groups ($1). An
// empty find or an invalid pattern leaves the table unchanged.
func FindReplace(text string, includeHeader bool, columns []string, find, replace string, useRegex bool) string {
	if find == "" {
		return text
	}
	fn := func(cell string) string { return strings.ReplaceAll(cell, find, replace) }
	if useRegex {
		re, err := regexp.Compile(find)
		if err != nil {
			return text
		}
		fn = func(cell string) string { return re.ReplaceAllString(cell, replace) }
	}
	cols := ResolveColumns(text, includeHeader, columns)
	return Apply(text, includeHeader, cols, fn)
}

// Prefix prepends prefix to the selected cells.
func Prefix(text string, includeHeader bool, columns []string, prefix string) string {
	cols := ResolveColumns(text, includeHeader, columns)
	return Apply(text, includeHeader, cols, func(cell string) string { return prefix + cell })
}

// Suffix appends suffix to the selected cells.
func Suffix(text string, includeHeader bool, columns []string, suffix string) string {
	cols := ResolveColumns(text, includeHeader, columns)
	return Apply(text, includeHeader, cols, func(cell string) string { return cell + suffix })
}

// Convert runs the script converter over the selected non-empty cells. A nil
// or failing converter leaves the table unchanged.
func Convert(text string, includeHeader bool, columns []string, conv scriptconv.Converter, dir scriptconv.Direction) string {
	if conv == nil {
		return text
	}
	if _, err := conv.Convert("", dir); err != nil {
		return text
	}
	cols := ResolveColumns(text, includeHeader, columns)
	return Apply(text, includeHeader, cols, func(cell string) string {
		if cell == "" {
			return cell
		}
		out, err := conv.Convert(cell, dir)
		if err != nil {
			return cell
		}
		return out
	})
}

// NumberFromName sets the Number column of every row whose key starts with a
// digit run to that run (zero padding kept). Other rows are left alone.
func NumberFromName(text string, includeHeader bool) string {
	if text == "" {
		return text
	}
	rows, err := Parse(text)
	if err != nil || len(rows) == 0 {
		return text
	}
	hasHeader := includeHeader && IsHeader(rows[0])
	indices := columnIndices(rows[0], hasHeader, []string{"Number"})
	if len(indices) == 0 {
		return text
	}
	col := indices[0]
	for i, row := range rows {
		if i == 0 && hasHeader {
			continue
		}
		digits, ok := textutil.LeadingDigits(Key(row))
		if !ok {
			continue
		}
		row = Pad(row, col+1)
		row[col] = digits
		rows[i] = row
	}
	return Format(rows)
}
