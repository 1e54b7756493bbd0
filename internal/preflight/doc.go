// Package preflight provides readiness checks for the filesystem paths and
// helpers mangatag depends on.
//
// Commands that modify a directory call EnsureAllowed and
// CheckDirectoryAccess before touching it. The CLI "mangatag status" command
// runs RunAll to display every check at once.
package preflight
