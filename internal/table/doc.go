// Package table holds the CSV representation of a directory scan and the
// batch column transforms applied to it.
//
// A table is plain CSV text: an optional header row whose first cell is
// FileName, then one row per archive with the archive's base name followed by
// the eleven ComicInfo fields. Transforms take and return the full text so
// callers can chain them and hand the result straight to save.
package table
