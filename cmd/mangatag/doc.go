// Package main hosts the mangatag CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into scan, save,
// rename and match passes over directories of comic archives, plus the
// table utilities (batch transforms, export, import) and configuration
// scaffolding. It centralizes configuration resolution, logger setup, the
// scan session cache and per-directory locking so subcommands only parse
// flags and print results.
//
// Keep this package lean: add new behaviour to the internal packages first,
// then surface it through a command or flag here.
package main
