package testsupport

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"mangatag/internal/comicinfo"
)

// Entry describes one member of a fixture archive.
type Entry struct {
	Name   string
	Body   []byte
	Method uint16
}

// RawEntry is a member as stored on disk: header fields plus compressed bytes.
type RawEntry struct {
	Name     string
	Method   uint16
	CRC32    uint32
	Modified time.Time
	Raw      []byte
}

var fixtureTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// Pages returns n image-like entries named 001.jpg, 002.jpg, ...
func Pages(n int) []Entry {
	entries := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		method := zip.Deflate
		if i%2 == 0 {
			method = zip.Store
		}
		entries = append(entries, Entry{
			Name:   pageName(i),
			Body:   Payload(512+i*64, byte(i)),
			Method: method,
		})
	}
	return entries
}

func pageName(i int) string {
	digits := []byte("000")
	for pos := 2; pos >= 0 && i > 0; pos-- {
		digits[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(digits) + ".jpg"
}

// Descriptor returns an entry holding d encoded as ComicInfo.xml.
func Descriptor(t testing.TB, d comicinfo.Descriptor) Entry {
	t.Helper()

	data, err := comicinfo.Marshal(d)
	if err != nil {
		t.Fatalf("marshal descriptor: %v", err)
	}
	return Entry{Name: comicinfo.EntryName, Body: data, Method: zip.Deflate}
}

// WriteZip creates a zip archive at path containing entries in order.
func WriteZip(t testing.TB, path string, entries ...Entry) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: e.Method, Modified: fixtureTime})
		if err != nil {
			t.Fatalf("create entry %s: %v", e.Name, err)
		}
		if _, err := w.Write(e.Body); err != nil {
			t.Fatalf("write entry %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	MustWrite(t, path, buf.Bytes())
}

// ReadZip returns every member of the archive at path with decompressed bodies.
func ReadZip(t testing.TB, path string) []Entry {
	t.Helper()

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip %s: %v", path, err)
	}
	defer reader.Close()

	entries := make([]Entry, 0, len(reader.File))
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		entries = append(entries, Entry{Name: f.Name, Body: body, Method: f.Method})
	}
	return entries
}

// ReadRaw returns every member of the archive at path without decompressing.
func ReadRaw(t testing.TB, path string) []RawEntry {
	t.Helper()

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip %s: %v", path, err)
	}
	defer reader.Close()

	entries := make([]RawEntry, 0, len(reader.File))
	for _, f := range reader.File {
		rc, err := f.OpenRaw()
		if err != nil {
			t.Fatalf("open raw %s: %v", f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read raw %s: %v", f.Name, err)
		}
		entries = append(entries, RawEntry{
			Name:     f.Name,
			Method:   f.Method,
			CRC32:    f.CRC32,
			Modified: f.Modified,
			Raw:      raw,
		})
	}
	return entries
}

// ModTime returns the modification time of path.
func ModTime(t testing.TB, path string) time.Time {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	return info.ModTime()
}
