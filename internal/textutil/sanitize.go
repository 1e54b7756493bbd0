package textutil

import (
	"strings"
	"unicode"
)

// maxNameBytes is the common filesystem limit for a single path component.
const maxNameBytes = 255

// illegalNameChars are characters that are unsafe in a file name on at least
// one mainstream filesystem.
const illegalNameChars = `/\:*?"<>|`

// SanitizeFileName replaces filesystem-unsafe characters and whitespace runs
// with replaceChar. Consecutive replacements collapse into one placeholder and
// the result is trimmed of leading/trailing placeholders and spaces. An empty
// replaceChar leaves the name unchanged apart from trimming.
func SanitizeFileName(name, replaceChar string) string {
	name = strings.TrimSpace(name)
	if name == "" || replaceChar == "" {
		return name
	}
	var b strings.Builder
	b.Grow(len(name))
	pending := false
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(illegalNameChars, r) {
			pending = true
			continue
		}
		if pending {
			if b.Len() > 0 {
				b.WriteString(replaceChar)
			}
			pending = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// IllegalNameReason reports why name cannot be used as a single file name in
// a directory. It returns an empty string when the name is usable.
func IllegalNameReason(name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return "empty name"
	case name == "." || name == "..":
		return "reserved name"
	case strings.ContainsRune(name, '/'):
		return "contains path separator"
	case strings.ContainsRune(name, 0):
		return "contains NUL byte"
	case len(name) > maxNameBytes:
		return "name too long"
	}
	return ""
}
