package dirlock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"mangatag/internal/dirlock"
)

func TestAcquireIsExclusivePerDirectory(t *testing.T) {
	lockDir := filepath.Join(t.TempDir(), "locks")
	dir := t.TempDir()

	first, err := dirlock.Acquire(lockDir, dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	t.Cleanup(func() { _ = first.Release() })

	if _, err := dirlock.Acquire(lockDir, dir); !errors.Is(err, dirlock.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	other, err := dirlock.Acquire(lockDir, t.TempDir())
	if err != nil {
		t.Fatalf("a different directory must not be blocked: %v", err)
	}
	if err := other.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := dirlock.Acquire(lockDir, dir)
	if err != nil {
		t.Fatalf("re-acquire after release: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
}

func TestLockNameIsStable(t *testing.T) {
	a := dirlock.LockName("/comics/a/")
	if a != dirlock.LockName("/comics/a") {
		t.Fatalf("trailing separator changed lock name")
	}
	if a == dirlock.LockName("/comics/b") {
		t.Fatalf("distinct directories share a lock name")
	}
}
