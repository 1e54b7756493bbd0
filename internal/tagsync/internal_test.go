package tagsync

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mangatag/internal/comicinfo"
)

func TestBaselineComparesFieldCells(t *testing.T) {
	b := BaselineFromTable("FileName,Title\na.cbz,One\n b.cbz ,Two,,,,,,,,,,,extra\n")
	tests := []struct {
		name string
		key  string
		row  []string
		want bool
	}{
		{"same padded", "a.cbz", []string{"a.cbz", "One"}, true},
		{"trailing empties", "a.cbz", []string{"a.cbz", "One", "", ""}, true},
		{"edited", "a.cbz", []string{"a.cbz", "One!"}, false},
		{"cells past the fields ignored", "b.cbz", []string{"b.cbz", "Two"}, true},
		{"unknown key", "c.cbz", []string{"c.cbz"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Unchanged(tt.key, tt.row); got != tt.want {
				t.Fatalf("Unchanged = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBaselineRekey(t *testing.T) {
	b := Baseline{
		"a.cbz": {"a.cbz", "A"},
		"b.cbz": {"b.cbz", "B"},
	}
	got := b.Rekey(map[string]string{"a.cbz": "b.cbz", "b.cbz": "a.cbz"})
	want := Baseline{
		"a.cbz": {"a.cbz", "B"},
		"b.cbz": {"b.cbz", "A"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rekey mismatch (-want +got):\n%s", diff)
	}
	if b["a.cbz"][1] != "A" {
		t.Fatalf("Rekey must not modify the receiver")
	}
}

func TestCompareNumericHandlesLongDigitRuns(t *testing.T) {
	paths := []string{
		"/d/ch100000000000000000000.cbz",
		"/d/ch9.cbz",
		"/d/ch009a.cbz",
		"/d/intro.cbz",
	}
	got := sortNumeric(paths)
	want := []string{"/d/ch009a.cbz", "/d/ch9.cbz", "/d/ch100000000000000000000.cbz", "/d/intro.cbz"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByNumberPutsMissingLast(t *testing.T) {
	paths := []string{"/d/a.cbz", "/d/b.cbz", "/d/c.cbz", "/d/d.cbz"}
	descriptors := map[string]comicinfo.Descriptor{
		"/d/a.cbz": {Number: "10"},
		"/d/b.cbz": {Number: "NaN"},
		"/d/c.cbz": {Number: "2.5"},
	}
	got := sortByNumber(paths, descriptors)
	want := []string{"/d/c.cbz", "/d/a.cbz", "/d/b.cbz", "/d/d.cbz"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSortMode(t *testing.T) {
	for input, want := range map[string]SortMode{
		"":          SortNumeric,
		"numeric":   SortNumeric,
		"LEXICAL":   SortLexical,
		"number":    SortByNumber,
		"by_number": SortByNumber,
	} {
		got, err := ParseSortMode(input)
		if err != nil || got != want {
			t.Fatalf("ParseSortMode(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseSortMode("random"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestRenderRule(t *testing.T) {
	row := []string{"x.cbz", " Title ", "Series", "12"}
	tests := []struct {
		rule string
		want string
	}{
		{"{title}", "Title"},
		{"{Series} {number:04}", "Series 0012"},
		{"{index:3}-{name}", "005-x"},
		{"{summary}", ""},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if err := validateRule(tt.rule); err != nil {
			t.Fatalf("validateRule(%q): %v", tt.rule, err)
		}
		got := renderRule(tt.rule, ruleContext{index: 5, name: "x", row: row})
		if got != tt.want {
			t.Fatalf("renderRule(%q) = %q, want %q", tt.rule, got, tt.want)
		}
	}
}
