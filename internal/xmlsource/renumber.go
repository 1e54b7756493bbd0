package xmlsource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	natomic "github.com/natefinch/atomic"

	"mangatag/internal/comicinfo"
	"mangatag/internal/logging"
	"mangatag/internal/textutil"
)

// RenumberResult summarizes a Renumber pass.
type RenumberResult struct {
	Log     []string
	Targets int
	Updated int
	Failed  int
}

// Renumber sets <Number> in each chapter folder's descriptor to the folder's
// leading digits, keeping zero padding ("007-extra" gives "007"). Folders
// are visited numbered first in numeric order, then the rest by name. Only the
// Number element is touched.
func (s *Service) Renumber(root string, dryRun bool) (RenumberResult, error) {
	dirs, err := chapterDirs(root)
	if err != nil {
		return RenumberResult{}, err
	}
	slices.SortStableFunc(dirs, compareChapterDirs)

	var res RenumberResult
	for _, name := range dirs {
		number, ok := textutil.LeadingDigits(name)
		if !ok {
			res.Log = append(res.Log, fmt.Sprintf("skipped (no number prefix): %s", name))
			continue
		}
		path, ok := FindDescriptor(filepath.Join(root, name))
		if !ok {
			res.Log = append(res.Log, fmt.Sprintf("skipped (no ComicInfo.xml): %s", name))
			continue
		}
		res.Targets++
		changed, err := s.setNumber(path, number, dryRun)
		switch {
		case err != nil:
			res.Failed++
			res.Log = append(res.Log, fmt.Sprintf("failed: %s: %v", path, err))
		case !changed:
			res.Updated++
			res.Log = append(res.Log, fmt.Sprintf("unchanged Number=%s: %s", number, path))
		case dryRun:
			res.Updated++
			res.Log = append(res.Log, fmt.Sprintf("would set Number=%s: %s", number, path))
		default:
			res.Updated++
			res.Log = append(res.Log, fmt.Sprintf("set Number=%s: %s", number, path))
		}
	}
	res.Log = append(res.Log, fmt.Sprintf("done: %d targets, %d updated, %d failed, dry-run=%t", res.Targets, res.Updated, res.Failed, dryRun))
	return res, nil
}

func (s *Service) setNumber(path, number string, dryRun bool) (bool, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	current, err := comicinfo.Unmarshal(doc)
	if err != nil {
		return false, err
	}
	if current.Number == number {
		return false, nil
	}
	updated, err := comicinfo.SetElement(doc, "Number", number)
	if err != nil {
		return false, err
	}
	if dryRun || bytes.Equal(updated, doc) {
		return true, nil
	}
	if err := natomic.WriteFile(path, bytes.NewReader(updated)); err != nil {
		logging.WarnWithContext(s.logger, "renumber write failed", "renumber_write_failed",
			logging.String("path", path),
			logging.Error(err),
		)
		return false, err
	}
	return true, nil
}

func compareChapterDirs(a, b string) int {
	da, okA := textutil.LeadingDigits(a)
	db, okB := textutil.LeadingDigits(b)
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case okA && okB:
		da, db = strings.TrimLeft(da, "0"), strings.TrimLeft(db, "0")
		if len(da) != len(db) {
			return len(da) - len(db)
		}
		if c := strings.Compare(da, db); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}
