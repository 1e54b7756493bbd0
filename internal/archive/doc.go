// Package archive reads and replaces a single named entry inside .cbz/.zip
// containers.
//
// Writes never patch a container in place. Every other entry is copied raw
// into a sibling temp file, the new entry is appended, and the temp file
// replaces the original in one rename. A failed write leaves the original
// archive untouched and removes the temp file.
package archive
