package table_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mangatag/internal/comicinfo"
	"mangatag/internal/scriptconv"
	"mangatag/internal/table"
)

const headerLine = "FileName,Title,Series,Number,Summary,Writer,Genre,Web,PublishingStatusTachiyomi,SourceMihon,PublicationYear,PublicationMonth\n"

func sampleTable() string {
	return headerLine +
		"001.cbz,Ep1,Show,1,,,,,,,,\n" +
		"002.cbz,Ep2,Show,2,\"a, b\",,,,,,,\n"
}

func mustParse(t *testing.T, text string) [][]string {
	t.Helper()
	rows, err := table.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return rows
}

func TestParseFormatRoundTrip(t *testing.T) {
	rows := [][]string{
		table.Headers,
		{"001.cbz", "Title, with comma", "Series", "1", "line one\nline two", `say "hi"`, "", "", "", "", "", ""},
	}
	text := table.Format(rows)
	if strings.Contains(text, "\r\n") {
		t.Fatalf("expected \\n line endings, got %q", text)
	}
	if diff := cmp.Diff(rows, mustParse(t, text)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseToleratesRaggedRowsAndBOM(t *testing.T) {
	rows := mustParse(t, "\ufeffFileName,Title\n001.cbz\n\n002.cbz,T,S,extra\n")
	want := [][]string{{"FileName", "Title"}, {"001.cbz"}, {"002.cbz", "T", "S", "extra"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestStripHeaderAndPrune(t *testing.T) {
	rows := [][]string{{" FileName ", "Title"}, {"a.cbz", "A"}, {"", " "}, {""}}
	got := table.PruneTrailingEmpty(table.StripHeader(rows))
	want := [][]string{{"a.cbz", "A"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	noHeader := [][]string{{"a.cbz", "A"}}
	if diff := cmp.Diff(noHeader, table.StripHeader(noHeader)); diff != "" {
		t.Fatalf("StripHeader removed a data row:\n%s", diff)
	}
}

func TestRowAndDescriptor(t *testing.T) {
	d := comicinfo.Descriptor{Title: "T", Series: "S", PublicationMonth: "5"}
	row := table.Row("001.cbz", d)
	if len(row) != table.Width {
		t.Fatalf("expected %d cells, got %d", table.Width, len(row))
	}
	if table.Key(row) != "001.cbz" {
		t.Fatalf("unexpected key %q", table.Key(row))
	}
	if got := table.Descriptor(row); got != d {
		t.Fatalf("descriptor mismatch: %+v", got)
	}
	if got := table.Descriptor([]string{"only-key"}); !got.IsEmpty() {
		t.Fatalf("expected empty descriptor, got %+v", got)
	}
	padded := table.Pad([]string{"a"}, 3)
	if diff := cmp.Diff([]string{"a", "", ""}, padded); diff != "" {
		t.Fatalf("Pad mismatch:\n%s", diff)
	}
}

func TestResolveColumns(t *testing.T) {
	renamed := "FileName,标题,Series\n001.cbz,x,y\n"
	tests := []struct {
		name          string
		text          string
		includeHeader bool
		selected      []string
		want          []string
	}{
		{"all canonical", sampleTable(), false, []string{table.AllColumns}, comicinfo.FieldNames},
		{"all from header", renamed, true, []string{table.AllColumns}, []string{"标题", "Series"}},
		{"key dropped", sampleTable(), true, []string{"FileName", "Title"}, []string{"Title"}},
		{"unknown dropped", renamed, true, []string{"Title", "标题"}, []string{"标题"}},
		{"empty selection", sampleTable(), true, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.ResolveColumns(tt.text, tt.includeHeader, tt.selected)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetSkipsKeyAndHeader(t *testing.T) {
	out := table.Set(sampleTable(), true, []string{"FileName", "Series"}, "New")
	rows := mustParse(t, out)
	if diff := cmp.Diff(table.Headers, rows[0]); diff != "" {
		t.Fatalf("header changed:\n%s", diff)
	}
	for _, row := range rows[1:] {
		if row[2] != "New" {
			t.Fatalf("Series not set: %v", row)
		}
	}
	if rows[1][0] != "001.cbz" || rows[2][0] != "002.cbz" {
		t.Fatalf("key column changed or rows reordered: %v", rows)
	}
}

func TestFindReplace(t *testing.T) {
	tests := []struct {
		name     string
		find     string
		replace  string
		useRegex bool
		want     []string
	}{
		{"literal", "Ep", "Chapter ", false, []string{"Chapter 1", "Chapter 2"}},
		{"regex", `^Ep(\d+)$`, "第${1}话", true, []string{"第1话", "第2话"}},
		{"bad regex", `Ep(`, "x", true, []string{"Ep1", "Ep2"}},
		{"empty find", "", "x", false, []string{"Ep1", "Ep2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := table.FindReplace(sampleTable(), true, []string{"Title"}, tt.find, tt.replace, tt.useRegex)
			rows := mustParse(t, out)
			got := []string{rows[1][1], rows[2][1]}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrefixSuffixPositionalAndPadding(t *testing.T) {
	text := "001.cbz,Ep1\n002.cbz\n"
	out := table.Prefix(text, false, []string{"Series"}, "[")
	out = table.Suffix(out, false, []string{"Series"}, "]")
	rows := mustParse(t, out)
	for _, row := range rows {
		if len(row) < 3 || row[2] != "[]" {
			t.Fatalf("expected padded Series cell, got %v", row)
		}
	}
	if rows[0][1] != "Ep1" {
		t.Fatalf("Title changed: %v", rows[0])
	}
}

func TestTransformsWithoutSelectionReturnInput(t *testing.T) {
	text := sampleTable()
	if got := table.Set(text, true, []string{"Nope"}, "x"); got != text {
		t.Fatalf("expected unchanged table, got %q", got)
	}
	if got := table.Set("", true, []string{"Title"}, "x"); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

type upperConverter struct{ err error }

func (c upperConverter) Convert(text string, _ scriptconv.Direction) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return strings.ToUpper(text), nil
}

func TestConvert(t *testing.T) {
	text := sampleTable()
	out := table.Convert(text, true, []string{table.AllColumns}, upperConverter{}, scriptconv.T2S)
	rows := mustParse(t, out)
	if rows[1][1] != "EP1" || rows[1][2] != "SHOW" {
		t.Fatalf("expected converted cells, got %v", rows[1])
	}
	if rows[1][0] != "001.cbz" {
		t.Fatalf("key column converted: %v", rows[1])
	}

	failing := upperConverter{err: scriptconv.ErrUnavailable}
	if got := table.Convert(text, true, []string{table.AllColumns}, failing, scriptconv.T2S); got != text {
		t.Fatal("expected unavailable converter to be a no-op")
	}
	if got := table.Convert(text, true, []string{"Title"}, nil, scriptconv.S2T); got != text {
		t.Fatal("expected nil converter to be a no-op")
	}
	var missing *scriptconv.OpenCC
	if got := table.Convert(text, true, []string{"Title"}, missing, scriptconv.S2T); got != text {
		t.Fatal("expected nil OpenCC to be a no-op")
	}
}

func TestNumberFromName(t *testing.T) {
	text := headerLine + "001-第01卷.cbz,T,S,\n12_特典.zip,T,S,99\nextra.cbz,T,S,7\n"
	rows := mustParse(t, table.NumberFromName(text, true))
	got := []string{rows[1][3], rows[2][3], rows[3][3]}
	if diff := cmp.Diff([]string{"001", "12", "7"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"utf8 bom", []byte("\xef\xbb\xbfFileName,Title\n"), "FileName,Title\n"},
		{"utf16le bom", []byte{0xff, 0xfe, 'F', 0, ',', 0, 'T', 0}, "F,T"},
		{"plain", []byte("a,b"), "a,b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Decode(tt.input); got != tt.want {
				t.Fatalf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	got := table.Render([][]string{{"001.cbz", "T"}}, true)
	if !strings.HasPrefix(got, headerLine) || !strings.HasSuffix(got, "001.cbz,T\n") {
		t.Fatalf("unexpected render: %q", got)
	}
}
