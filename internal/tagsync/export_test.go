package tagsync_test

import (
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mangatag/internal/comicinfo"
	"mangatag/internal/table"
	"mangatag/internal/tagsync"
)

var exportNamePattern = regexp.MustCompile(`^(.+)_\d{8}_\d{6}_[0-9a-f]{8}\.csv$`)

func TestExportRegeneratesEmptyTable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Vol: 1")
	path := writeArchive(t, dir, "1.cbz", &comicinfo.Descriptor{Title: "One"})
	engine, _ := newEngine(t)

	data, name := engine.Export("", true, dir, []string{path})
	rows := parseTable(t, string(data))
	if len(rows) != 2 || !table.IsHeader(rows[0]) || rows[1][1] != "One" {
		t.Fatalf("unexpected export rows %q", rows)
	}
	m := exportNamePattern.FindStringSubmatch(name)
	if m == nil || m[1] != "Vol 1" {
		t.Fatalf("unexpected export name %q", name)
	}
}

func TestExportAddsMissingHeader(t *testing.T) {
	engine, _ := newEngine(t)
	data, name := engine.Export("a.cbz,A\n", true, "", nil)
	rows := parseTable(t, string(data))
	if len(rows) != 2 || !table.IsHeader(rows[0]) {
		t.Fatalf("header not added: %q", rows)
	}
	if m := exportNamePattern.FindStringSubmatch(name); m == nil || m[1] != "comicinfo" {
		t.Fatalf("unexpected export name %q", name)
	}

	data, _ = engine.Export("a.cbz,A\n", false, "", nil)
	if string(data) != "a.cbz,A\n" {
		t.Fatalf("table without header must pass through, got %q", data)
	}
}

func TestImport(t *testing.T) {
	withHeader := "\ufeff" + table.Render([][]string{{"a.cbz", "A"}}, true)
	tests := []struct {
		name    string
		content []byte
		header  bool
		want    [][]string
	}{
		{"keeps header", []byte(withHeader), true, [][]string{table.Headers, {"a.cbz", "A"}}},
		{"drops header", []byte(withHeader), false, [][]string{{"a.cbz", "A"}}},
		{"no header present", []byte("a.cbz,A\n"), false, [][]string{{"a.cbz", "A"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTable(t, tagsync.Import(tt.content, tt.header))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("import mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
