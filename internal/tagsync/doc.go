// Package tagsync synchronizes a directory of archives with an editable CSV
// snapshot of their ComicInfo.xml descriptors.
//
// Scan reads every archive into a table and captures a baseline. Save writes
// back only the rows that differ from that baseline, refusing ambiguous input
// (duplicate file names, mismatched file sets) before touching any archive.
// Rename moves archives to names computed from a rule template, resolving
// collisions through a ConflictPolicy and updating the table in step.
//
// Scan and Save have streaming variants that yield the same log lines one by
// one; a consumer that stops ranging stops the pass before the next archive.
package tagsync
