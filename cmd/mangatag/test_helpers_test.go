package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mangatag/internal/archive"
	"mangatag/internal/comicinfo"
	"mangatag/internal/config"
	"mangatag/internal/logging"
	"mangatag/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	workDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))
	t.Setenv("MANGATAG_ALLOWED_BASE_PATHS", "")

	cfg := testsupport.NewConfig(t, opts...)
	if err := os.MkdirAll(cfg.Paths.LibraryDir, 0o755); err != nil {
		t.Fatalf("mkdir library: %v", err)
	}
	workDir := filepath.Join(cfg.Paths.LibraryDir, "Series")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "mangatag", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		workDir:    workDir,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	bases := make([]string, len(cfg.Paths.AllowedBasePaths))
	for i, b := range cfg.Paths.AllowedBasePaths {
		bases[i] = fmt.Sprintf("%q", b)
	}
	content := fmt.Sprintf(`[paths]
library_dir = %q
log_dir = %q
lock_dir = %q
allowed_base_paths = [%s]

[scan]
sort_mode = %q
include_header = true

[session]
file = %q

[convert]
enabled = %t

[logging]
level = "error"
`,
		cfg.Paths.LibraryDir,
		cfg.Paths.LogDir,
		cfg.Paths.LockDir,
		strings.Join(bases, ", "),
		cfg.Scan.SortMode,
		cfg.Session.File,
		cfg.Convert.Enabled,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeArchive creates dir/name with two pages and, when d is non-nil, a
// descriptor.
func writeArchive(t *testing.T, dir, name string, d *comicinfo.Descriptor) string {
	t.Helper()
	entries := testsupport.Pages(2)
	if d != nil {
		entries = append(entries, testsupport.Descriptor(t, *d))
	}
	path := filepath.Join(dir, name)
	testsupport.WriteZip(t, path, entries...)
	return path
}

func readDescriptor(t *testing.T, path string) comicinfo.Descriptor {
	t.Helper()
	data, err := archive.NewStore(logging.NewNop()).ReadEntry(path, comicinfo.EntryName)
	if err != nil {
		t.Fatalf("ReadEntry %s: %v", path, err)
	}
	d, err := comicinfo.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal %s: %v", path, err)
	}
	return d
}

func sessionToken(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if token, ok := strings.CutPrefix(line, "Session: "); ok {
			return strings.TrimSpace(token)
		}
	}
	t.Fatalf("no session token in %q", output)
	return ""
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
