package tagsync

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ConflictPolicy decides the final name for a desired target. taken reports
// whether a name is already held by a file that stays put or by an earlier
// item of the same pass. Items are offered in scan order.
type ConflictPolicy interface {
	Name() string
	Resolve(desired string, taken func(string) bool) (string, error)
}

// SuffixPolicy appends -2, -3, ... to the name (before the extension) until it
// is free. The earliest item keeps the bare name.
type SuffixPolicy struct{}

func (SuffixPolicy) Name() string { return "suffix" }

func (SuffixPolicy) Resolve(desired string, taken func(string) bool) (string, error) {
	if !taken(desired) {
		return desired, nil
	}
	ext := filepath.Ext(desired)
	stem := strings.TrimSuffix(desired, ext)
	for n := 2; ; n++ {
		candidate := stem + "-" + strconv.Itoa(n) + ext
		if !taken(candidate) {
			return candidate, nil
		}
	}
}

// AbortPolicy refuses any collision.
type AbortPolicy struct{}

func (AbortPolicy) Name() string { return "abort" }

func (AbortPolicy) Resolve(desired string, taken func(string) bool) (string, error) {
	if taken(desired) {
		return "", fmt.Errorf("%w: %s", ErrRenameConflict, desired)
	}
	return desired, nil
}

// ParseConflictPolicy maps a configured policy name to its implementation.
func ParseConflictPolicy(name string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "suffix":
		return SuffixPolicy{}, nil
	case "abort":
		return AbortPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown conflict policy %q (want suffix or abort)", name)
	}
}
