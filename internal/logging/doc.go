// Package logging assembles structured slog loggers and formatting helpers used
// across mangatag.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so engine code can tag log lines
// with the scan session token and working directory. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Diagnostics only flow through here. The per-item operation log that scan,
// save and rename return to the caller is plain data and never passes through
// slog.
package logging
