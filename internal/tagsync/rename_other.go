//go:build !linux

package tagsync

// renameNoReplace renames oldpath to newpath and fails if newpath exists.
func renameNoReplace(oldpath, newpath string) error {
	return renameChecked(oldpath, newpath)
}
