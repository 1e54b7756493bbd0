package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"mangatag/internal/comicinfo"
)

const (
	// KeyColumn names the immutable first column holding the archive base name.
	KeyColumn = "FileName"
	// AllColumns selects every non-key column.
	AllColumns = "*"
	// Width is the number of cells in a full row.
	Width = comicinfo.FieldCount + 1
)

// Headers is the canonical header row.
var Headers = append([]string{KeyColumn}, comicinfo.FieldNames...)

// Parse splits CSV text into rows. Rows may have differing lengths.
func Parse(text string) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, "\ufeff")))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}
	return rows, nil
}

// Format renders rows as CSV with \n line endings.
func Format(rows [][]string) string {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	for _, row := range rows {
		_ = writer.Write(row)
	}
	writer.Flush()
	return buf.String()
}

// IsHeader reports whether row is a header row (first cell is the key column).
func IsHeader(row []string) bool {
	return len(row) > 0 && strings.TrimSpace(row[0]) == KeyColumn
}

// HeaderOf returns the trimmed first row of text, or nil when text has no rows.
func HeaderOf(text string) []string {
	rows, err := Parse(text)
	if err != nil || len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cell)
	}
	return header
}

// StripHeader drops a leading header row when present.
func StripHeader(rows [][]string) [][]string {
	if len(rows) > 0 && IsHeader(rows[0]) {
		return rows[1:]
	}
	return rows
}

// PruneTrailingEmpty drops trailing rows whose cells are all blank.
func PruneTrailingEmpty(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isBlank(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Pad returns row extended with empty cells to at least n cells. The input is
// never modified.
func Pad(row []string, n int) []string {
	out := make([]string, max(len(row), n))
	copy(out, row)
	return out
}

// Key returns the trimmed key cell of row.
func Key(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return strings.TrimSpace(row[0])
}

// Row builds a full table row for an archive.
func Row(name string, d comicinfo.Descriptor) []string {
	return append([]string{name}, d.Values()...)
}

// Descriptor reads the eleven field cells of row.
func Descriptor(row []string) comicinfo.Descriptor {
	if len(row) <= 1 {
		return comicinfo.Descriptor{}
	}
	return comicinfo.FromValues(row[1:])
}

// Render formats rows, prepending the canonical header when includeHeader is set.
func Render(rows [][]string, includeHeader bool) string {
	if includeHeader {
		rows = append([][]string{Headers}, rows...)
	}
	return Format(rows)
}

// Decode turns uploaded bytes into text, honouring a UTF-8 or UTF-16 byte
// order mark. Invalid UTF-8 sequences become U+FFFD.
func Decode(content []byte) string {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, content)
	if err != nil {
		return strings.ToValidUTF8(string(content), "")
	}
	return string(out)
}
