package tagsync_test

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"mangatag/internal/comicinfo"
	"mangatag/internal/table"
	"mangatag/internal/tagsync"
	"mangatag/internal/testsupport"
)

func snapshot(t *testing.T, paths []string) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte, len(paths))
	for _, p := range paths {
		out[p] = testsupport.MustRead(t, p)
	}
	return out
}

func assertUntouched(t *testing.T, before map[string][]byte) {
	t.Helper()
	for path, data := range before {
		if !slices.Equal(data, testsupport.MustRead(t, path)) {
			t.Fatalf("%s changed", filepath.Base(path))
		}
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "1.cbz", &comicinfo.Descriptor{Title: "One"})
	writeArchive(t, dir, "2.cbz", nil)
	engine, store := newEngine(t)
	res := mustScan(t, engine, dir, true, tagsync.SortNumeric)

	rows := parseTable(t, res.Table)
	rows[2][3] = "2"
	edited := table.Format(rows)
	opts := tagsync.SaveOptions{CheckCount: true, Baseline: res.Baseline}

	first := engine.Save(res.Archives, edited, opts)
	if first.Written != 1 {
		t.Fatalf("first save: %+v", first)
	}

	// The caller refreshes the baseline from the saved table.
	opts.Baseline = tagsync.BaselineFromTable(edited)
	writes := store.Writes()
	second := engine.Save(res.Archives, edited, opts)
	if !second.OK || second.Written != 0 || second.Unchanged != 2 {
		t.Fatalf("second save: %+v", second)
	}
	if store.Writes() != writes {
		t.Fatalf("second save rewrote archives: %d -> %d", writes, store.Writes())
	}
}

func TestSaveWithoutBaselineWritesEveryRow(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "1.cbz", nil)
	writeArchive(t, dir, "2.cbz", nil)
	engine, store := newEngine(t)
	res := mustScan(t, engine, dir, false, tagsync.SortNumeric)

	out := engine.Save(res.Archives, res.Table, tagsync.SaveOptions{CheckCount: true})
	if out.Written != 2 || store.Writes() != 2 {
		t.Fatalf("expected two writes, got %+v", out)
	}
	if got := out.Log[len(out.Log)-1]; got != "save done: 2 written, 0 unchanged, 0 skipped, 0 failed" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestSaveRejectsDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	a := writeArchive(t, dir, "a.cbz", &comicinfo.Descriptor{Title: "A"})
	b := writeArchive(t, dir, "b.cbz", &comicinfo.Descriptor{Title: "B"})
	engine, store := newEngine(t)
	before := snapshot(t, []string{a, b})

	text := table.Render([][]string{
		{"a.cbz", "A1"},
		{"b.cbz", "B1"},
		{" a.cbz ", "A2"},
	}, true)
	out := engine.Save([]string{a, b}, text, tagsync.SaveOptions{})
	if out.OK || !errors.Is(out.Err, tagsync.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key failure, got %+v", out)
	}
	if store.Writes() != 0 {
		t.Fatalf("no archive may be written, got %d writes", store.Writes())
	}
	assertUntouched(t, before)
	if !strings.HasPrefix(out.Log[len(out.Log)-1], "save cancelled: ") {
		t.Fatalf("unexpected log %q", out.Log)
	}
}

func TestSavePreconditions(t *testing.T) {
	dir := t.TempDir()
	a := writeArchive(t, dir, "a.cbz", nil)
	b := writeArchive(t, dir, "b.cbz", nil)
	engine, store := newEngine(t)

	tests := []struct {
		name     string
		archives []string
		text     string
		check    bool
		want     error
	}{
		{"empty table", []string{a}, "  \n", false, tagsync.ErrEmptyTable},
		{"no archives", nil, "a.cbz,A\n", false, tagsync.ErrNoArchives},
		{"missing row", []string{a, b}, "a.cbz,A\n", true, tagsync.ErrCountMismatch},
		{"extra row", []string{a}, "a.cbz,A\nz.cbz,Z\n", true, tagsync.ErrCountMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := engine.Save(tt.archives, tt.text, tagsync.SaveOptions{CheckCount: tt.check})
			if out.OK || !errors.Is(out.Err, tt.want) {
				t.Fatalf("expected %v, got %+v", tt.want, out)
			}
		})
	}
	if store.Writes() != 0 {
		t.Fatalf("preconditions must not write, got %d", store.Writes())
	}
}

func TestSaveSkipsMissingRowsWithoutCountCheck(t *testing.T) {
	dir := t.TempDir()
	a := writeArchive(t, dir, "a.cbz", nil)
	b := writeArchive(t, dir, "b.cbz", nil)
	engine, _ := newEngine(t)
	before := snapshot(t, []string{b})

	out := engine.Save([]string{a, b}, "a.cbz,Alpha\nghost.cbz,Boo\n", tagsync.SaveOptions{})
	if !out.OK || out.Written != 1 || out.Missing != 1 {
		t.Fatalf("unexpected result %+v", out)
	}
	assertUntouched(t, before)
	joined := strings.Join(out.Log, "\n")
	if !strings.Contains(joined, "skipped: no row for b.cbz") || !strings.Contains(joined, "rows for unknown files") {
		t.Fatalf("unexpected log:\n%s", joined)
	}
}

func TestSaveContinuesAfterWriteFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.cbz")
	testsupport.MustWrite(t, bad, []byte("garbage"))
	good := writeArchive(t, dir, "good.cbz", nil)
	engine, _ := newEngine(t)

	out := engine.Save([]string{bad, good}, "bad.cbz,X\ngood.cbz,Y\n", tagsync.SaveOptions{CheckCount: true})
	if !out.OK || out.Failed != 1 || out.Written != 1 {
		t.Fatalf("unexpected result %+v", out)
	}
	if !strings.Contains(out.Log[0], "failed: bad.cbz") {
		t.Fatalf("unexpected first line %q", out.Log[0])
	}
}

func TestSaveStreamStopsBeforeNextArchive(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"1.cbz", "2.cbz", "3.cbz"} {
		paths = append(paths, writeArchive(t, dir, name, nil))
	}
	engine, store := newEngine(t)

	var result tagsync.SaveResult
	for line := range engine.SaveStream(paths, "1.cbz,a\n2.cbz,b\n3.cbz,c\n", tagsync.SaveOptions{}, &result) {
		if strings.Contains(line, "saved: 1.cbz") {
			break
		}
	}
	if store.Writes() != 1 || result.Written != 1 {
		t.Fatalf("expected exactly one write, got store=%d result=%+v", store.Writes(), result)
	}
}
