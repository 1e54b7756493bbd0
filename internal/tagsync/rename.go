package tagsync

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"mangatag/internal/logging"
	"mangatag/internal/table"
	"mangatag/internal/textutil"
)

// RenameOptions controls rule based renames.
type RenameOptions struct {
	// Rule is the file name template without extension, for example
	// "{series} {number:03}".
	Rule string
	// ReplaceWhitespace substitutes whitespace and filename-unsafe characters
	// with ReplaceChar.
	ReplaceWhitespace bool
	ReplaceChar       string
	// Policy resolves collisions; nil means SuffixPolicy.
	Policy ConflictPolicy
}

// RenamePair is one planned rename (base names).
type RenamePair struct {
	Old string
	New string
}

// RenameResult is the outcome of a rename pass.
type RenameResult struct {
	Table    string
	Log      []string
	Archives []string
	Baseline Baseline
	Renamed  int
	Failed   int
}

type renamePlan struct {
	dir   string
	rows  [][]string
	pairs map[int]RenamePair // archive index -> pair
	order []RenamePair
}

// PreviewRename computes the (old, new) name pairs in archive order without
// touching the filesystem. Archives without a table row are not listed.
func (e *Engine) PreviewRename(archives []string, text string, opts RenameOptions) ([]RenamePair, error) {
	if len(archives) == 0 {
		return nil, fmt.Errorf("%w: scan a directory first", ErrNoArchives)
	}
	plan, err := e.planRename(filepath.Dir(archives[0]), archives, text, opts)
	if err != nil {
		return nil, err
	}
	return plan.order, nil
}

// Rename applies the rule to every archive that has a row, then updates the
// table's FileName cells, the archive list and the baseline. Invalid rules,
// illegal names and refused conflicts abort before any file moves. Each move
// goes through a unique temp name so chains and swaps cannot clobber files.
// A move that fails puts the archive back under its old name or, when that
// name was taken by an earlier move of the same pass, under a free
// "<old>-restored<ext>" name; the table, archive list and baseline follow it.
func (e *Engine) Rename(dir string, archives []string, text string, opts RenameOptions, baseline Baseline) (RenameResult, error) {
	if len(archives) == 0 {
		return RenameResult{}, fmt.Errorf("%w: scan a directory first", ErrNoArchives)
	}
	plan, err := e.planRename(dir, archives, text, opts)
	if err != nil {
		return RenameResult{}, err
	}

	type staged struct {
		idx  int
		temp string
	}
	failures := make(map[int]error)
	var moves []staged
	for idx, pair := range plan.pairs {
		if pair.Old == pair.New {
			continue
		}
		src := filepath.Join(plan.dir, pair.Old)
		if _, err := os.Lstat(src); err != nil {
			failures[idx] = fmt.Errorf("source changed: %w", err)
			continue
		}
		temp := filepath.Join(plan.dir, ".mangatag-rename-"+uuid.NewString()+".tmp")
		if err := moveNoReplace(src, temp); err != nil {
			failures[idx] = err
			continue
		}
		moves = append(moves, staged{idx: idx, temp: temp})
	}
	// Phase two runs in archive order so the earliest item claims its name first.
	slices.SortFunc(moves, func(a, b staged) int { return a.idx - b.idx })
	renames := make(map[string]string)
	for _, move := range moves {
		pair := plan.pairs[move.idx]
		err := moveNoReplace(move.temp, filepath.Join(plan.dir, pair.New))
		if err == nil {
			renames[pair.Old] = pair.New
			continue
		}
		restored, restoreErr := restoreMoved(plan.dir, move.temp, pair.Old)
		switch {
		case restoreErr != nil:
			failures[move.idx] = fmt.Errorf("%v; left as %s: %w", err, filepath.Base(move.temp), restoreErr)
			renames[pair.Old] = filepath.Base(move.temp)
			logging.ErrorWithContext(e.logger, "rename restore failed", "rename_restore_failed",
				logging.String(logging.FieldArchive, pair.Old),
				logging.String("temp", move.temp),
				logging.Error(restoreErr),
				logging.String(logging.FieldErrorHint, "rename the temp file back by hand"),
			)
		case restored != pair.Old:
			failures[move.idx] = fmt.Errorf("%v; restored as %s", err, restored)
			renames[pair.Old] = restored
		default:
			failures[move.idx] = err
		}
	}

	result := RenameResult{Archives: slices.Clone(archives)}
	total := len(archives)
	unchanged := 0
	for i, path := range archives {
		name := filepath.Base(path)
		pair, planned := plan.pairs[i]
		var line string
		switch {
		case !planned:
			line = fmt.Sprintf("[%d/%d] skipped: no row for %s", i+1, total, name)
		case failures[i] != nil:
			result.Failed++
			if moved, ok := renames[pair.Old]; ok {
				result.Archives[i] = filepath.Join(filepath.Dir(path), moved)
			}
			line = fmt.Sprintf("[%d/%d] failed: %s -> %s: %v", i+1, total, pair.Old, pair.New, failures[i])
			logging.WarnWithContext(e.logger, "rename failed", "rename_failed",
				logging.String(logging.FieldArchive, path),
				logging.String("target", pair.New),
				logging.Error(failures[i]),
				logging.String(logging.FieldImpact, "archive was not moved to the planned name"),
			)
		case pair.Old == pair.New:
			unchanged++
			line = fmt.Sprintf("[%d/%d] unchanged: %s", i+1, total, name)
		default:
			result.Renamed++
			result.Archives[i] = filepath.Join(filepath.Dir(path), pair.New)
			line = fmt.Sprintf("[%d/%d] %s -> %s", i+1, total, pair.Old, pair.New)
		}
		result.Log = append(result.Log, line)
	}
	result.Log = append(result.Log, fmt.Sprintf("rename done: %d renamed, %d unchanged, %d failed", result.Renamed, unchanged, result.Failed))

	for _, row := range plan.rows {
		if newName, ok := renames[table.Key(row)]; ok && !table.IsHeader(row) {
			row[0] = newName
		}
	}
	result.Table = table.Format(plan.rows)
	result.Baseline = baseline.Rekey(renames)
	return result, nil
}

// moveNoReplace is swapped in tests to inject failures between the two
// phases of a rename.
var moveNoReplace = renameNoReplace

// maxRestoreAttempts bounds the "-restored-N" names tried for one archive.
const maxRestoreAttempts = 100

// restoreMoved moves temp back to old, or to the first free
// "<stem>-restored<ext>" / "<stem>-restored-N<ext>" name when old is taken.
// It returns the base name the archive ended up under.
func restoreMoved(dir, temp, old string) (string, error) {
	err := moveNoReplace(temp, filepath.Join(dir, old))
	if err == nil {
		return old, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return "", err
	}
	ext := filepath.Ext(old)
	stem := strings.TrimSuffix(old, ext)
	for n := 1; n <= maxRestoreAttempts; n++ {
		name := stem + "-restored" + ext
		if n > 1 {
			name = fmt.Sprintf("%s-restored-%d%s", stem, n, ext)
		}
		err = moveNoReplace(temp, filepath.Join(dir, name))
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
	return "", err
}

func (e *Engine) planRename(dir string, archives []string, text string, opts RenameOptions) (*renamePlan, error) {
	if err := validateRule(opts.Rule); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTable
	}
	policy := opts.Policy
	if policy == nil {
		policy = SuffixPolicy{}
	}
	allRows, err := table.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	dataRows := allRows
	if len(allRows) > 0 && table.IsHeader(allRows[0]) {
		dataRows = allRows[1:]
	}
	byKey, duplicates := indexRows(dataRows)
	if len(duplicates) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, sample(duplicates))
	}
	position := make(map[string]int, len(dataRows))
	for i, row := range dataRows {
		if key := table.Key(row); key != "" {
			if _, seen := position[key]; !seen {
				position[key] = i + 1
			}
		}
	}

	dir = filepath.Clean(dir)
	movers := make(map[string]bool)
	for _, path := range archives {
		if filepath.Clean(filepath.Dir(path)) != dir {
			return nil, fmt.Errorf("%w: %s is not in %s", ErrNoArchives, path, dir)
		}
		if _, ok := byKey[filepath.Base(path)]; ok {
			movers[filepath.Base(path)] = true
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	reserved := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !movers[entry.Name()] {
			reserved[entry.Name()] = true
		}
	}

	plan := &renamePlan{dir: dir, rows: allRows, pairs: make(map[int]RenamePair)}
	assigned := make(map[string]bool)
	taken := func(name string) bool { return reserved[name] || assigned[name] }
	for i, path := range archives {
		name := filepath.Base(path)
		row, ok := byKey[name]
		if !ok {
			continue
		}
		ext := filepath.Ext(name)
		stem := renderRule(opts.Rule, ruleContext{
			index: position[name],
			name:  strings.TrimSuffix(name, ext),
			row:   row,
		})
		if opts.ReplaceWhitespace {
			stem = textutil.SanitizeFileName(stem, opts.ReplaceChar)
		} else {
			stem = strings.TrimSpace(stem)
		}
		desired := stem + ext
		if reason := illegalTarget(stem, desired); reason != "" {
			return nil, fmt.Errorf("%w: %s -> %q: %s", ErrIllegalName, name, desired, reason)
		}
		final, err := policy.Resolve(desired, taken)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if reason := textutil.IllegalNameReason(final); reason != "" {
			return nil, fmt.Errorf("%w: %s -> %q: %s", ErrIllegalName, name, final, reason)
		}
		assigned[final] = true
		pair := RenamePair{Old: name, New: final}
		plan.pairs[i] = pair
		plan.order = append(plan.order, pair)
	}
	return plan, nil
}

func illegalTarget(stem, name string) string {
	if strings.TrimSpace(stem) == "" {
		return "empty name"
	}
	if strings.HasPrefix(name, ".mangatag-") {
		return "reserved prefix"
	}
	return textutil.IllegalNameReason(name)
}

// renameChecked refuses to replace an existing path, then renames. The check
// and the rename are not atomic.
func renameChecked(oldpath, newpath string) error {
	if _, err := os.Lstat(newpath); err == nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(oldpath, newpath)
}
