package testsupport

import (
	"path/filepath"
	"testing"

	"mangatag/internal/config"
)

// ConfigOption adjusts the config built by NewConfig.
type ConfigOption func(*config.Config)

// NewConfig returns the defaults rooted in a fresh temp directory: library,
// logs, locks and the session file all live under it, and script conversion
// is off so tests never depend on OpenCC dictionaries.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(root, "library")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Paths.LockDir = filepath.Join(root, "locks")
	cfg.Session.File = filepath.Join(root, "state", "sessions.json")
	cfg.Convert.Enabled = false
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAllowedBase restricts directory arguments to paths.
func WithAllowedBase(paths ...string) ConfigOption {
	return func(c *config.Config) { c.Paths.AllowedBasePaths = append([]string(nil), paths...) }
}
