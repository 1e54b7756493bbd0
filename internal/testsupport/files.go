package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	MustWrite(t, path, Payload(int(size), 0x42))
}

// MustWrite writes data to path, creating parent directories.
func MustWrite(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MustRead returns the content of path.
func MustRead(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

// Payload returns size bytes of a pattern seeded by seed. The bytes vary so
// deflate does not reduce them to nothing.
func Payload(size int, seed byte) []byte {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = seed + byte(i*31) + byte(i/7)
	}
	return buf
}
