// Package library lists the directories of a comic library that hold
// archives and searches them by name in any Chinese script or in pinyin.
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mangatag/internal/archive"
	"mangatag/internal/scriptconv"
	"mangatag/internal/textutil"
)

// ListArchiveDirs walks base and returns, relative to base and in lexical
// order, every directory that directly contains an archive. Such directories
// are not descended into. Unreadable subdirectories are skipped.
func ListArchiveDirs(base string) ([]string, error) {
	info, err := os.Stat(base)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", base)
	}
	var dirs []string
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == base {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() || path == base {
			return nil
		}
		if hasArchive(path) {
			rel, err := filepath.Rel(base, path)
			if err != nil {
				return err
			}
			dirs = append(dirs, filepath.ToSlash(rel))
			return fs.SkipDir
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipDir) {
		return nil, err
	}
	return dirs, nil
}

func hasArchive(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if archive.IsArchiveName(entry.Name()) {
			return true
		}
	}
	return false
}

// SearchValue builds the haystack a directory is matched against: the
// relative path, its script-converted forms and its pinyin spelling and
// initials. conv and translit may be nil.
func SearchValue(rel string, conv scriptconv.Converter, translit scriptconv.Transliterator) string {
	var converters []func(string) string
	if conv != nil {
		converters = scriptconv.BothDirections(conv)
	}
	var syllables []string
	if translit != nil {
		syllables = translit.Transliterate(rel)
	}
	value := textutil.SearchValue(textutil.Forms(rel, converters...), syllables)
	if value == "" {
		return rel
	}
	return value
}

// Search returns up to limit archive directories under base whose search
// value contains query, case-insensitively. An empty query matches all
// directories; limit <= 0 means no limit.
func Search(base, query string, limit int, conv scriptconv.Converter, translit scriptconv.Transliterator) ([]string, error) {
	dirs, err := ListArchiveDirs(base)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	var out []string
	for _, rel := range dirs {
		if limit > 0 && len(out) >= limit {
			break
		}
		if query == "" || strings.Contains(strings.ToLower(SearchValue(rel, conv, translit)), query) {
			out = append(out, rel)
		}
	}
	return out, nil
}
