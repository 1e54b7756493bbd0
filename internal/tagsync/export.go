package tagsync

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"mangatag/internal/table"
)

const exportFallbackName = "comicinfo"

// Export returns the table as download bytes plus a suggested file name of the
// form <dir>_<YYYYmmdd_HHMMSS>_<id>.csv. An empty table is regenerated from
// the archives; with includeHeader the canonical header is added when the
// first row is not one already.
func (e *Engine) Export(text string, includeHeader bool, dir string, archives []string) ([]byte, string) {
	if strings.TrimSpace(text) == "" && len(archives) > 0 {
		rows := make([][]string, 0, len(archives))
		for _, path := range archives {
			read := e.readDescriptor(path)
			row, _ := scanRow(path, read)
			rows = append(rows, row)
		}
		text = table.Render(rows, includeHeader)
	}
	if includeHeader {
		if rows, err := table.Parse(text); err == nil && len(rows) > 0 && !table.IsHeader(rows[0]) {
			text = table.Format(append([][]string{table.Headers}, rows...))
		}
	}
	name := exportBaseName(dir) + "_" + e.now().Format("20060102_150405") + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + ".csv"
	return []byte(text), name
}

func exportBaseName(dir string) string {
	if dir == "" {
		return exportFallbackName
	}
	base := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._- ", r) {
			return r
		}
		return -1
	}, filepath.Base(dir))
	base = strings.TrimSpace(base)
	if base == "" || base == "." {
		return exportFallbackName
	}
	return base
}

// Import decodes uploaded table bytes. A byte order mark is dropped, and so is
// a leading header row when includeHeader is off.
func Import(content []byte, includeHeader bool) string {
	text := strings.TrimPrefix(table.Decode(content), "\ufeff")
	if includeHeader {
		return text
	}
	rows, err := table.Parse(text)
	if err != nil || len(rows) == 0 || !table.IsHeader(rows[0]) {
		return text
	}
	return table.Format(rows[1:])
}
