package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mangatag/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("MANGATAG_ALLOWED_BASE_PATHS", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.LibraryDir != filepath.Join(tempHome, "comics") {
		t.Fatalf("unexpected library dir: %q", cfg.Paths.LibraryDir)
	}
	wantLogs := filepath.Join(tempHome, ".local", "state", "mangatag", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if len(cfg.Paths.AllowedBasePaths) != 0 {
		t.Fatalf("expected unrestricted base paths, got %v", cfg.Paths.AllowedBasePaths)
	}
	if cfg.Scan.SortMode != "numeric" {
		t.Fatalf("unexpected sort mode: %q", cfg.Scan.SortMode)
	}
	if !cfg.Scan.IncludeHeader {
		t.Fatal("expected header enabled by default")
	}
	if !cfg.Save.CheckCount {
		t.Fatal("expected check_count enabled by default")
	}
	if cfg.Rename.ReplaceChar != "_" || cfg.Rename.Conflict != "suffix" {
		t.Fatalf("unexpected rename defaults: %+v", cfg.Rename)
	}
	if cfg.Match.Threshold != 0.60 || cfg.Match.Strategy != "both" {
		t.Fatalf("unexpected match defaults: %+v", cfg.Match)
	}
	if got := cfg.SessionTTL().Hours(); got != 24 {
		t.Fatalf("unexpected session ttl: %v", got)
	}
	if want := filepath.Join(tempHome, ".local", "state", "mangatag", "sessions.json"); cfg.Session.File != want {
		t.Fatalf("unexpected session file: got %q want %q", cfg.Session.File, want)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MANGATAG_ALLOWED_BASE_PATHS", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `[paths]
library_dir = "~/manga"
allowed_base_paths = ["~/manga", " ~/manga ", "/srv/comics"]

[scan]
sort_mode = " By_Number "
include_header = false

[rename]
conflict = "ABORT"
replace_char = "-"

[match]
threshold = 0.8
strategy = "Title"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.LibraryDir != filepath.Join(tempHome, "manga") {
		t.Fatalf("unexpected library dir: %q", cfg.Paths.LibraryDir)
	}
	wantBases := []string{filepath.Join(tempHome, "manga"), "/srv/comics"}
	if strings.Join(cfg.Paths.AllowedBasePaths, ",") != strings.Join(wantBases, ",") {
		t.Fatalf("unexpected allowed base paths: %v", cfg.Paths.AllowedBasePaths)
	}
	if cfg.Scan.SortMode != "number" || cfg.Scan.IncludeHeader {
		t.Fatalf("unexpected scan section: %+v", cfg.Scan)
	}
	if cfg.Rename.Conflict != "abort" || cfg.Rename.ReplaceChar != "-" {
		t.Fatalf("unexpected rename section: %+v", cfg.Rename)
	}
	if cfg.Match.Threshold != 0.8 || cfg.Match.Strategy != "title" {
		t.Fatalf("unexpected match section: %+v", cfg.Match)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging section: %+v", cfg.Logging)
	}
}

func TestAllowedBasePathsEnvFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MANGATAG_ALLOWED_BASE_PATHS", "/data/a, /data/b,,")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if strings.Join(cfg.Paths.AllowedBasePaths, ",") != "/data/a,/data/b" {
		t.Fatalf("expected env base paths, got %v", cfg.Paths.AllowedBasePaths)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	defaults := config.Default()
	if cfg.Match.Threshold != defaults.Match.Threshold {
		t.Fatalf("sample threshold %v differs from default %v", cfg.Match.Threshold, defaults.Match.Threshold)
	}
	if cfg.Rename.Conflict != defaults.Rename.Conflict {
		t.Fatalf("sample conflict %q differs from default %q", cfg.Rename.Conflict, defaults.Rename.Conflict)
	}
	if !strings.Contains(cfg.Paths.LibraryDir, "comics") {
		t.Fatalf("expected library dir to mention comics, got %q", cfg.Paths.LibraryDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"sort mode", func(c *config.Config) { c.Scan.SortMode = "random" }},
		{"conflict", func(c *config.Config) { c.Rename.Conflict = "skip" }},
		{"replace char", func(c *config.Config) { c.Rename.ReplaceChar = "/" }},
		{"threshold low", func(c *config.Config) { c.Match.Threshold = -0.1 }},
		{"threshold high", func(c *config.Config) { c.Match.Threshold = 1.5 }},
		{"strategy", func(c *config.Config) { c.Match.Strategy = "series" }},
		{"ttl", func(c *config.Config) { c.Session.TTLHours = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
