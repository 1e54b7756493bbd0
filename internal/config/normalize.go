package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeRename()
	c.normalizeMatch()
	if c.Session.TTLHours <= 0 {
		c.Session.TTLHours = defaultTTLHours
	}
	if strings.TrimSpace(c.Session.File) == "" {
		c.Session.File = stateDir("sessions.json")
	}
	var err error
	if c.Session.File, err = ExpandPath(strings.TrimSpace(c.Session.File)); err != nil {
		return fmt.Errorf("session.file: %w", err)
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = ExpandPath(strings.TrimSpace(c.Paths.LibraryDir)); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = stateDir("logs")
	}
	if c.Paths.LogDir, err = ExpandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		c.Paths.LockDir = stateDir("locks")
	}
	if c.Paths.LockDir, err = ExpandPath(strings.TrimSpace(c.Paths.LockDir)); err != nil {
		return fmt.Errorf("paths.lock_dir: %w", err)
	}

	bases := c.Paths.AllowedBasePaths
	if len(bases) == 0 {
		if value, ok := os.LookupEnv(allowedBasePathsEnv); ok {
			bases = strings.Split(value, ",")
		}
	}
	expanded := make([]string, 0, len(bases))
	seen := make(map[string]struct{}, len(bases))
	for _, base := range bases {
		base = strings.TrimSpace(base)
		if base == "" {
			continue
		}
		abs, err := ExpandPath(base)
		if err != nil {
			return fmt.Errorf("paths.allowed_base_paths: %w", err)
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		expanded = append(expanded, abs)
	}
	c.Paths.AllowedBasePaths = expanded
	return nil
}

func (c *Config) normalizeScan() {
	c.Scan.SortMode = strings.ToLower(strings.TrimSpace(c.Scan.SortMode))
	switch c.Scan.SortMode {
	case "":
		c.Scan.SortMode = defaultSortMode
	case "by_number", "by-number":
		c.Scan.SortMode = "number"
	case "lex":
		c.Scan.SortMode = "lexical"
	}
}

func (c *Config) normalizeRename() {
	c.Rename.Conflict = strings.ToLower(strings.TrimSpace(c.Rename.Conflict))
	if c.Rename.Conflict == "" {
		c.Rename.Conflict = defaultConflict
	}
	if c.Rename.ReplaceChar == "" {
		c.Rename.ReplaceChar = defaultReplaceChar
	}
}

func (c *Config) normalizeMatch() {
	c.Match.Strategy = strings.ToLower(strings.TrimSpace(c.Match.Strategy))
	if c.Match.Strategy == "" {
		c.Match.Strategy = defaultStrategy
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
