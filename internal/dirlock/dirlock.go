// Package dirlock serializes passes that modify the same archive directory.
//
// Save, rename and descriptor application take an exclusive advisory lock
// named after the directory before touching any archive. A second mangatag
// process working on the same directory fails fast with ErrBusy instead of
// interleaving archive rewrites.
package dirlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrBusy reports that another process holds the directory lock.
var ErrBusy = errors.New("another mangatag pass is running on this directory")

// Lock is a held directory lock.
type Lock struct {
	dir  string
	path string
	lock *flock.Flock
}

// Acquire takes the lock for dir, creating lockDir when needed. It does not
// block.
func Acquire(lockDir, dir string) (*Lock, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := filepath.Join(lockDir, LockName(abs))
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (lock file %s)", ErrBusy, abs, path)
	}
	return &Lock{dir: abs, path: path, lock: fl}, nil
}

// LockName returns the lock file name used for an absolute directory path.
func LockName(absDir string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(absDir)))
	return hex.EncodeToString(sum[:8]) + ".lock"
}

// Dir returns the locked directory.
func (l *Lock) Dir() string { return l.dir }

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release unlocks. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
