package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mangatag/internal/tagsync"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(t *testing.T, path string) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCache(path, nil)
	c.now = clock.now
	return c, clock
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Dir:      "/comics/a",
		Archives: []string{"/comics/a/1.cbz", "/comics/a/2.cbz"},
		Baseline: tagsync.Baseline{"1.cbz": {"1.cbz", "One"}},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	for name, path := range map[string]string{
		"memory": "",
		"file":   filepath.Join(t.TempDir(), "state", "sessions.json"),
	} {
		t.Run(name, func(t *testing.T) {
			c, clock := newTestCache(t, path)
			token := NewToken()
			if err := c.Put(token, sampleSnapshot(), time.Hour); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, ok := c.Get(token)
			if !ok {
				t.Fatal("Get did not find stored snapshot")
			}
			want := sampleSnapshot()
			want.CreatedAt = clock.t
			want.ExpiresAt = clock.t.Add(time.Hour)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
			}
			if _, ok := c.Get("other"); ok {
				t.Fatal("unknown token must not resolve")
			}
		})
	}
}

func TestSnapshotsExpireIndependently(t *testing.T) {
	c, clock := newTestCache(t, "")
	if err := c.Put("short", sampleSnapshot(), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("long", sampleSnapshot(), time.Hour); err != nil {
		t.Fatal(err)
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if _, ok := c.Get("short"); ok {
		t.Fatal("short snapshot should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Fatal("long snapshot should still be valid")
	}

	removed, err := c.SweepExpired()
	if err != nil || removed != 1 || c.Count() != 1 {
		t.Fatalf("SweepExpired = %d, %v (count %d)", removed, err, c.Count())
	}
}

func TestPersistenceAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	first, _ := newTestCache(t, path)
	if err := first.Put("tok", sampleSnapshot(), time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}

	second, _ := newTestCache(t, path)
	got, ok := second.Get("tok")
	if !ok || got.Dir != "/comics/a" || len(got.Baseline) != 1 {
		t.Fatalf("second instance did not see snapshot: %+v %v", got, ok)
	}

	if err := second.Replace("tok", func(s *Snapshot) { s.Archives = s.Archives[:1] }); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, _ = first.Get("tok")
	if len(got.Archives) != 1 {
		t.Fatalf("replace not persisted: %+v", got)
	}
	if err := first.Replace("missing", func(*Snapshot) {}); !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}

	if err := first.Remove("tok"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := second.Get("tok"); ok {
		t.Fatal("removed snapshot still visible")
	}
}

func TestCorruptFileIsReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, _ := newTestCache(t, path)
	if _, ok := c.Get("x"); ok {
		t.Fatal("corrupt cache must not resolve tokens")
	}
	if err := c.Put("x", sampleSnapshot(), time.Hour); err != nil {
		t.Fatalf("Put over corrupt file: %v", err)
	}
	if _, ok := c.Get("x"); !ok {
		t.Fatal("snapshot missing after reset")
	}
}

func TestPutValidation(t *testing.T) {
	c, _ := newTestCache(t, "")
	if err := c.Put(" ", sampleSnapshot(), time.Hour); err == nil {
		t.Fatal("expected error for empty token")
	}
	if err := c.Put("tok", sampleSnapshot(), 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
	if a, b := NewToken(), NewToken(); a == b || len(a) != 32 {
		t.Fatalf("unexpected tokens %q %q", a, b)
	}
}
