package tagsync

import "errors"

var (
	// ErrNoDirectory reports that the scan target is missing or not a directory.
	ErrNoDirectory = errors.New("directory does not exist")
	// ErrEmptyTable reports that there is nothing to save.
	ErrEmptyTable = errors.New("table is empty")
	// ErrInvalidTable reports CSV that could not be parsed.
	ErrInvalidTable = errors.New("table is not valid CSV")
	// ErrNoArchives reports a pass without a scanned archive list.
	ErrNoArchives = errors.New("no archives scanned")
	// ErrDuplicateKey reports a table in which two rows share a file name.
	ErrDuplicateKey = errors.New("duplicate file name in table")
	// ErrCountMismatch reports a table whose file names differ from the scanned set.
	ErrCountMismatch = errors.New("table does not match scanned archives")
	// ErrInvalidRule reports an empty or malformed rename rule.
	ErrInvalidRule = errors.New("invalid rename rule")
	// ErrIllegalName reports a computed target name the filesystem cannot hold.
	ErrIllegalName = errors.New("illegal target file name")
	// ErrRenameConflict reports a collision the conflict policy refused to resolve.
	ErrRenameConflict = errors.New("rename conflict")
)
