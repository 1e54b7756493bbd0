package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateRename(); err != nil {
		return err
	}
	if err := c.validateMatch(); err != nil {
		return err
	}
	if c.Session.TTLHours <= 0 {
		return errors.New("session.ttl_hours must be positive")
	}
	return nil
}

func (c *Config) validateScan() error {
	switch c.Scan.SortMode {
	case "numeric", "lexical", "number":
		return nil
	default:
		return fmt.Errorf("scan.sort_mode: unsupported value %q (want numeric, lexical or number)", c.Scan.SortMode)
	}
}

func (c *Config) validateRename() error {
	switch c.Rename.Conflict {
	case "suffix", "abort":
	default:
		return fmt.Errorf("rename.conflict: unsupported value %q (want suffix or abort)", c.Rename.Conflict)
	}
	if strings.ContainsAny(c.Rename.ReplaceChar, "/\x00") {
		return errors.New("rename.replace_char must not contain a path separator or NUL")
	}
	return nil
}

func (c *Config) validateMatch() error {
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		return errors.New("match.threshold must be between 0 and 1")
	}
	switch c.Match.Strategy {
	case "title", "folder", "both":
		return nil
	default:
		return fmt.Errorf("match.strategy: unsupported value %q (want title, folder or both)", c.Match.Strategy)
	}
}
