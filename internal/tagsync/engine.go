package tagsync

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mangatag/internal/archive"
	"mangatag/internal/comicinfo"
	"mangatag/internal/logging"
	"mangatag/internal/table"
)

// EntryStore reads and replaces the descriptor entry of an archive.
type EntryStore interface {
	ReadEntry(path, name string) ([]byte, error)
	WriteEntry(path, name string, data []byte) error
}

// Engine runs scan, save, rename and export passes over one directory at a
// time. Passes are sequential; callers serialize passes on the same directory.
type Engine struct {
	store  EntryStore
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine constructs an Engine backed by store.
func NewEngine(store EntryStore, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logging.NewComponentLogger(logger, "tagsync"),
		now:    time.Now,
	}
}

// ScanResult is the outcome of a scan.
type ScanResult struct {
	Dir      string
	Table    string
	Log      []string
	Archives []string
	Baseline Baseline
}

// Scan reads every archive directly inside dir and returns the table, one log
// line per archive (after a header line) and the archive order.
func (e *Engine) Scan(dir string, includeHeader bool, mode SortMode) (ScanResult, error) {
	var lines []string
	result, _, err := e.scan(dir, includeHeader, mode, func(line string) bool {
		lines = append(lines, line)
		return true
	})
	result.Log = lines
	return result, err
}

// ScanStream yields the scan log line by line. When the sequence runs to
// completion and result is non-nil, *result receives the full ScanResult
// (including the log). A scan that cannot start yields a single error line.
func (e *Engine) ScanStream(dir string, includeHeader bool, mode SortMode, result *ScanResult) iter.Seq[string] {
	return func(yield func(string) bool) {
		var lines []string
		res, complete, err := e.scan(dir, includeHeader, mode, func(line string) bool {
			lines = append(lines, line)
			return yield(line)
		})
		if err != nil {
			yield("error: " + err.Error())
			return
		}
		if complete && result != nil {
			res.Log = lines
			*result = res
		}
	}
}

type rowOutcome int

const (
	rowRead rowOutcome = iota
	rowSynthesized
	rowParseFailed
)

func (e *Engine) scan(dir string, includeHeader bool, mode SortMode, emit func(string) bool) (ScanResult, bool, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ScanResult{}, false, fmt.Errorf("%s: %w", dir, ErrNoDirectory)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ScanResult{}, false, fmt.Errorf("resolve %s: %w", dir, err)
	}
	archives, err := archive.List(abs)
	if err != nil {
		return ScanResult{}, false, err
	}

	cache := make(map[string]descriptorRead, len(archives))
	switch mode {
	case SortByNumber:
		descriptors := make(map[string]comicinfo.Descriptor, len(archives))
		for _, path := range archives {
			read := e.readDescriptor(path)
			cache[path] = read
			if read.err == nil {
				descriptors[path] = read.descriptor
			}
		}
		archives = sortByNumber(archives, descriptors)
	case SortLexical:
		archives = sortLexical(archives)
	default:
		mode = SortNumeric
		archives = sortNumeric(archives)
	}

	result := ScanResult{Dir: abs, Archives: archives}
	if !emit(fmt.Sprintf("found %d archives, sort: %s", len(archives), mode)) {
		return result, false, nil
	}

	rows := make([][]string, 0, len(archives))
	total := len(archives)
	for i, path := range archives {
		read, ok := cache[path]
		if !ok {
			read = e.readDescriptor(path)
		}
		row, outcome := scanRow(path, read)
		rows = append(rows, row)

		name := filepath.Base(path)
		var line string
		switch outcome {
		case rowSynthesized:
			line = fmt.Sprintf("[%d/%d] no ComicInfo.xml -> prefilled Title=%q, Series=%q", i+1, total, row[1], row[2])
		case rowParseFailed:
			line = fmt.Sprintf("[%d/%d] read failed -> %s: %v", i+1, total, name, read.err)
		default:
			line = fmt.Sprintf("[%d/%d] read ComicInfo.xml -> %s", i+1, total, name)
		}
		if !emit(line) {
			return result, false, nil
		}
	}

	result.Table = table.Render(rows, includeHeader)
	result.Baseline = baselineFromRows(rows)
	e.logger.Debug("scan complete",
		logging.String(logging.FieldDir, abs),
		logging.Int("archives", total),
		logging.String("sort_mode", string(mode)),
	)
	return result, true, nil
}

type descriptorRead struct {
	descriptor comicinfo.Descriptor
	err        error
}

func (e *Engine) readDescriptor(path string) descriptorRead {
	data, err := e.store.ReadEntry(path, comicinfo.EntryName)
	if err != nil {
		return descriptorRead{err: err}
	}
	d, err := comicinfo.Unmarshal(data)
	if err != nil {
		e.logger.Debug("descriptor parse failed",
			logging.String(logging.FieldArchive, path),
			logging.Error(err),
		)
		return descriptorRead{err: err}
	}
	return descriptorRead{descriptor: d}
}

// scanRow builds the table row for one archive. A missing or unreadable
// descriptor yields the file's base name as Title and the parent directory as
// Series; a malformed descriptor yields empty fields.
func scanRow(path string, read descriptorRead) ([]string, rowOutcome) {
	name := filepath.Base(path)
	switch {
	case read.err == nil:
		return table.Row(name, read.descriptor), rowRead
	case errors.Is(read.err, archive.ErrEntryNotFound), errors.Is(read.err, archive.ErrArchiveUnreadable):
		d := comicinfo.Descriptor{
			Title:  strings.TrimSuffix(name, filepath.Ext(name)),
			Series: filepath.Base(filepath.Dir(path)),
		}
		return table.Row(name, d), rowSynthesized
	default:
		return table.Row(name, comicinfo.Descriptor{}), rowParseFailed
	}
}
