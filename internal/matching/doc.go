// Package matching assigns external chapter descriptors to archives by fuzzy
// name comparison.
//
// Scores live in [0,1]. Normalized exact names score 1.0, identical chapter
// indexes 0.99, and conflicting indexes 0. Everything else falls back to an
// edit-distance ratio. A volume marker never matches a chapter marker.
// Candidates are visited in case-insensitive name order and the first
// maximal score wins, so results are repeatable.
package matching
