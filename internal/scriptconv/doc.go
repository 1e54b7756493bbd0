// Package scriptconv wraps the optional Chinese script tooling: traditional
// and simplified conversion (OpenCC dictionaries) and pinyin transliteration.
//
// Both are soft dependencies. Construction failures surface as ErrUnavailable
// and callers are expected to degrade to a no-op rather than fail; a nil
// *OpenCC is valid and converts nothing.
package scriptconv
