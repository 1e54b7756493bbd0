package tagsync

import (
	"fmt"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"mangatag/internal/comicinfo"
	"mangatag/internal/logging"
	"mangatag/internal/table"
)

// SaveOptions controls a save pass.
type SaveOptions struct {
	// CheckCount aborts the save when the table and the archive list
	// disagree on the set of file names.
	CheckCount bool
	// Baseline, when set, skips rows whose fields are unchanged since scan.
	Baseline Baseline
}

// SaveResult is the outcome of a save pass. OK is false only when a
// precondition failed and nothing was written; Err then wraps the sentinel.
type SaveResult struct {
	Log       []string
	OK        bool
	Err       error
	Written   int
	Unchanged int
	Missing   int
	Failed    int
}

// Save writes the submitted table back into archives in archive order.
// Duplicate file names, an empty table or (with CheckCount) a mismatched file
// set abort before any write. Individual write failures are logged and the
// pass continues.
func (e *Engine) Save(archives []string, text string, opts SaveOptions) SaveResult {
	var result SaveResult
	e.save(archives, text, opts, &result, func(line string) bool {
		result.Log = append(result.Log, line)
		return true
	})
	return result
}

// SaveStream yields the save log line by line. Stopping iteration stops the
// pass before the next archive is touched. When result is non-nil it
// receives the counters (and log) accumulated so far.
func (e *Engine) SaveStream(archives []string, text string, opts SaveOptions, result *SaveResult) iter.Seq[string] {
	return func(yield func(string) bool) {
		var local SaveResult
		e.save(archives, text, opts, &local, func(line string) bool {
			local.Log = append(local.Log, line)
			return yield(line)
		})
		if result != nil {
			*result = local
		}
	}
}

func (e *Engine) save(archives []string, text string, opts SaveOptions, res *SaveResult, emit func(string) bool) {
	fail := func(err error) {
		res.Err = err
		res.OK = false
		emit("save cancelled: " + err.Error())
	}

	if strings.TrimSpace(text) == "" {
		fail(ErrEmptyTable)
		return
	}
	if len(archives) == 0 {
		fail(fmt.Errorf("%w: scan a directory first", ErrNoArchives))
		return
	}
	rows, err := table.Parse(text)
	if err != nil {
		fail(fmt.Errorf("%w: %v", ErrInvalidTable, err))
		return
	}
	rows = table.PruneTrailingEmpty(table.StripHeader(rows))

	byKey, duplicates := indexRows(rows)
	if len(duplicates) > 0 {
		fail(fmt.Errorf("%w: %d names, e.g. %s", ErrDuplicateKey, len(duplicates), sample(duplicates)))
		return
	}

	names := make([]string, len(archives))
	for i, path := range archives {
		names[i] = filepath.Base(path)
	}
	missing, extra := diffKeys(names, byKey)
	if opts.CheckCount {
		if len(missing) > 0 {
			fail(fmt.Errorf("%w: table lacks %d files, e.g. %s", ErrCountMismatch, len(missing), sample(missing)))
			return
		}
		if len(extra) > 0 {
			fail(fmt.Errorf("%w: table has %d files not in the scan, e.g. %s", ErrCountMismatch, len(extra), sample(extra)))
			return
		}
	} else {
		if len(missing) > 0 && !emit(fmt.Sprintf("note: table lacks %d files, they will be skipped, e.g. %s", len(missing), sample(missing))) {
			return
		}
		if len(extra) > 0 && !emit(fmt.Sprintf("note: table has %d rows for unknown files, they will be ignored, e.g. %s", len(extra), sample(extra))) {
			return
		}
	}
	res.OK = true

	total := len(archives)
	for i, path := range archives {
		name := names[i]
		row, ok := byKey[name]
		var line string
		switch {
		case !ok:
			res.Missing++
			line = fmt.Sprintf("[%d/%d] skipped: no row for %s", i+1, total, name)
		case opts.Baseline.Unchanged(name, row):
			res.Unchanged++
			line = fmt.Sprintf("[%d/%d] unchanged: %s", i+1, total, name)
		default:
			if err := e.writeRow(path, row); err != nil {
				res.Failed++
				line = fmt.Sprintf("[%d/%d] failed: %s: %v", i+1, total, name, err)
			} else {
				res.Written++
				line = fmt.Sprintf("[%d/%d] saved: %s", i+1, total, name)
			}
		}
		if !emit(line) {
			return
		}
	}
	emit(fmt.Sprintf("save done: %d written, %d unchanged, %d skipped, %d failed", res.Written, res.Unchanged, res.Missing, res.Failed))
}

func (e *Engine) writeRow(path string, row []string) error {
	data, err := comicinfo.Marshal(table.Descriptor(table.Pad(row, table.Width)))
	if err != nil {
		return err
	}
	if err := e.store.WriteEntry(path, comicinfo.EntryName, data); err != nil {
		logging.WarnWithContext(e.logger, "save failed for archive", "save_write_failed",
			logging.String(logging.FieldArchive, path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "archive keeps its previous ComicInfo.xml"),
		)
		return err
	}
	return nil
}

// indexRows maps trimmed keys to rows and reports keys seen more than once.
func indexRows(rows [][]string) (map[string][]string, []string) {
	byKey := make(map[string][]string, len(rows))
	var duplicates []string
	for _, row := range rows {
		key := table.Key(row)
		if key == "" {
			continue
		}
		if _, seen := byKey[key]; seen {
			if !slices.Contains(duplicates, key) {
				duplicates = append(duplicates, key)
			}
			continue
		}
		byKey[key] = row
	}
	slices.Sort(duplicates)
	return byKey, duplicates
}

func diffKeys(names []string, byKey map[string][]string) (missing, extra []string) {
	present := make(map[string]struct{}, len(names))
	for _, name := range names {
		present[name] = struct{}{}
		if _, ok := byKey[name]; !ok {
			missing = append(missing, name)
		}
	}
	for key := range byKey {
		if _, ok := present[key]; !ok {
			extra = append(extra, key)
		}
	}
	slices.Sort(missing)
	slices.Sort(extra)
	return missing, extra
}

func sample(names []string) string {
	const limit = 3
	if len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:limit], ", ") + ", ..."
}
