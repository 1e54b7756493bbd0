// Package textutil provides text processing utilities for matching keys,
// similarity scoring, and filename sanitization.
//
// The primary use cases are:
//   - Canonicalizing titles and file names before comparison (Normalize)
//   - Scoring two strings with a symmetric edit-distance ratio (Ratio)
//   - Producing every matchable spelling of a string (Forms, SearchValue)
//   - Sanitizing filenames for safe filesystem use
//
// Normalization applies NFKC so full-width digits and punctuation fold to
// their ASCII forms, then Unicode case folding, and finally drops everything
// that is not a letter or a digit. CJK ideographs count as letters and survive.
package textutil
