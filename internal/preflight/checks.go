package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"mangatag/internal/scriptconv"
)

// ErrOutsideAllowedBase reports a directory outside every allowed base path.
var ErrOutsideAllowedBase = errors.New("directory is outside the allowed base paths")

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// RequireDirectory turns a failed CheckDirectoryAccess into an error.
func RequireDirectory(path string) error {
	if r := CheckDirectoryAccess("directory", path); !r.Passed {
		return errors.New(r.Detail)
	}
	return nil
}

// EnsureAllowed resolves path to an absolute, symlink-free form and checks
// that it lies under one of bases. An empty bases list allows everything.
// It returns the resolved path.
func EnsureAllowed(path string, bases []string) (string, error) {
	abs, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if len(bases) == 0 {
		return abs, nil
	}
	for _, base := range bases {
		baseAbs, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(baseAbs); err == nil {
			baseAbs = resolved
		}
		rel, err := filepath.Rel(baseAbs, abs)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrOutsideAllowedBase, abs)
}

// CheckConverter reports whether the script converter can be built. Script
// conversion is optional; a failure only disables `batch convert` and
// converted search forms.
func CheckConverter(build func() (scriptconv.Converter, error)) Result {
	const name = "Script conversion"
	conv, err := build()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unavailable (%v)", err)}
	}
	if _, err := conv.Convert("測試", scriptconv.T2S); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unavailable (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: "OpenCC t2s/s2t ready"}
}
