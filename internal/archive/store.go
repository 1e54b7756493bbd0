package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	natomic "github.com/natefinch/atomic"

	"mangatag/internal/logging"
)

var (
	// ErrEntryNotFound reports that no entry matches the requested name.
	ErrEntryNotFound = errors.New("archive entry not found")
	// ErrArchiveUnreadable reports that the container could not be opened or parsed.
	ErrArchiveUnreadable = errors.New("archive unreadable")
	// ErrWriteFailure reports that the temp write or replace step failed.
	ErrWriteFailure = errors.New("archive write failed")
)

// Extensions lists the recognized container extensions (lowercase).
var Extensions = []string{".cbz", ".zip"}

// maxEntrySize caps how much of a single entry ReadEntry will load.
const maxEntrySize = 16 << 20

const tempPattern = ".mangatag-*.tmp"

// Store performs entry level reads and atomic rewrites.
type Store struct {
	logger *slog.Logger
	writes atomic.Int64
	now    func() time.Time
}

// NewStore constructs a Store. A nil logger discards diagnostics.
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		logger: logging.NewComponentLogger(logger, "archive"),
		now:    time.Now,
	}
}

// Writes returns how many archives this store has successfully rewritten.
func (s *Store) Writes() int64 {
	return s.writes.Load()
}

// ReadEntry returns the content of name inside the archive at path. An exact
// case match wins over a case-insensitive one.
func (s *Store) ReadEntry(path, name string) ([]byte, error) {
	reader, err := s.open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	file := findEntry(reader.File, name)
	if file == nil {
		return nil, fmt.Errorf("%s in %s: %w", name, filepath.Base(path), ErrEntryNotFound)
	}
	rc, err := file.Open()
	if err != nil {
		return nil, s.unreadable(path, fmt.Errorf("open %s: %w", file.Name, err))
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, s.unreadable(path, fmt.Errorf("read %s: %w", file.Name, err))
	}
	if len(data) > maxEntrySize {
		return nil, s.unreadable(path, fmt.Errorf("%s exceeds %d bytes", file.Name, maxEntrySize))
	}
	return data, nil
}

// HasEntry reports whether the archive contains name (case-insensitively).
func (s *Store) HasEntry(path, name string) (bool, error) {
	reader, err := s.open(path)
	if err != nil {
		return false, err
	}
	defer reader.Close()
	return findEntry(reader.File, name) != nil, nil
}

// Entries lists the entry names of the archive in container order.
func (s *Store) Entries(path string) ([]string, error) {
	reader, err := s.open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// WriteEntry replaces (or adds) name inside the archive at path. Every entry
// whose name matches case-insensitively is dropped and data is written under
// name. Other entries keep their compressed bytes and headers.
func (s *Store) WriteEntry(path, name string, data []byte) (err error) {
	reader, err := s.open(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	info, err := os.Stat(path)
	if err != nil {
		return s.writeFailed(path, fmt.Errorf("stat: %w", err))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return s.writeFailed(path, fmt.Errorf("create temp: %w", err))
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tmp.Close()
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.logger.Debug("temp cleanup failed", logging.String("temp", tmpPath), logging.Error(rmErr))
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, f := range reader.File {
		if strings.EqualFold(f.Name, name) {
			continue
		}
		if err := zw.Copy(f); err != nil {
			return s.writeFailed(path, fmt.Errorf("copy %s: %w", f.Name, err))
		}
	}
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: s.now(),
	})
	if err != nil {
		return s.writeFailed(path, fmt.Errorf("create %s: %w", name, err))
	}
	if _, err := w.Write(data); err != nil {
		return s.writeFailed(path, fmt.Errorf("write %s: %w", name, err))
	}
	if reader.Comment != "" {
		if err := zw.SetComment(reader.Comment); err != nil {
			return s.writeFailed(path, fmt.Errorf("set comment: %w", err))
		}
	}
	if err := zw.Close(); err != nil {
		return s.writeFailed(path, fmt.Errorf("finalize: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return s.writeFailed(path, fmt.Errorf("sync temp: %w", err))
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return s.writeFailed(path, fmt.Errorf("chmod temp: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return s.writeFailed(path, fmt.Errorf("close temp: %w", err))
	}
	if err := natomic.ReplaceFile(tmpPath, path); err != nil {
		return s.writeFailed(path, fmt.Errorf("replace: %w", err))
	}
	committed = true
	s.writes.Add(1)
	s.logger.Debug("entry written",
		logging.String(logging.FieldArchive, path),
		logging.String("entry", name),
		logging.Int("bytes", len(data)),
	)
	return nil
}

func (s *Store) open(path string) (*zip.ReadCloser, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		if reader != nil && errors.Is(err, zip.ErrInsecurePath) {
			return reader, nil
		}
		return nil, s.unreadable(path, err)
	}
	return reader, nil
}

func (s *Store) unreadable(path string, cause error) error {
	logging.WarnWithContext(s.logger, "archive unreadable", "archive_unreadable",
		logging.String(logging.FieldArchive, path),
		logging.Error(cause),
		logging.String(logging.FieldErrorHint, "verify the file is a valid zip container"),
		logging.String(logging.FieldImpact, "treated as having no ComicInfo.xml"),
	)
	return fmt.Errorf("%s: %w: %v", filepath.Base(path), ErrArchiveUnreadable, cause)
}

func (s *Store) writeFailed(path string, cause error) error {
	logging.ErrorWithContext(s.logger, "archive write failed", "archive_write_failed",
		logging.String(logging.FieldArchive, path),
		logging.Error(cause),
		logging.String(logging.FieldErrorHint, "check free space and directory permissions"),
	)
	return fmt.Errorf("%s: %w: %v", filepath.Base(path), ErrWriteFailure, cause)
}

func findEntry(files []*zip.File, name string) *zip.File {
	for _, f := range files {
		if f.Name == name {
			return f
		}
	}
	for _, f := range files {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

// IsArchiveName reports whether name carries a recognized container extension.
func IsArchiveName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// List returns the absolute paths of the regular archive files directly in
// dir, sorted by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsArchiveName(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(abs, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
