package xmlsource

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"mangatag/internal/comicinfo"
	"mangatag/internal/logging"
	"mangatag/internal/matching"
)

// EntryStore is the subset of the archive store used to apply descriptors.
type EntryStore interface {
	HasEntry(path, name string) (bool, error)
	WriteEntry(path, name string, data []byte) error
}

// Service discovers, applies and renumbers external descriptors.
type Service struct {
	store  EntryStore
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(store EntryStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logging.NewComponentLogger(logger, "xmlsource")}
}

// FindDescriptor returns the descriptor path of a chapter folder, preferring
// dir/ComicInfo.xml over dir/xml/ComicInfo.xml.
func FindDescriptor(dir string) (string, bool) {
	for _, candidate := range []string{
		filepath.Join(dir, comicinfo.EntryName),
		filepath.Join(dir, "xml", comicinfo.EntryName),
	} {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

// chapterDirs lists the direct subdirectories of root sorted by name.
func chapterDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("descriptor root %s does not exist", root)
		}
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}

// Discover returns one source per chapter folder whose descriptor has a
// non-empty Title. Unreadable descriptors are logged and skipped.
func (s *Service) Discover(root string) ([]matching.Source, error) {
	dirs, err := chapterDirs(root)
	if err != nil {
		return nil, err
	}
	var sources []matching.Source
	for _, name := range dirs {
		path, ok := FindDescriptor(filepath.Join(root, name))
		if !ok {
			continue
		}
		title, err := comicinfo.ReadTitle(path)
		if err != nil {
			logging.WarnWithContext(s.logger, "descriptor unreadable", "xml_source_unreadable",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "chapter folder ignored"),
			)
			continue
		}
		if title == "" {
			s.logger.Debug("descriptor has no title", logging.String("path", path))
			continue
		}
		sources = append(sources, matching.Source{Title: title, Folder: name, Path: path})
	}
	return sources, nil
}
