package xmlsource

import (
	"fmt"
	"os"
	"path/filepath"

	"mangatag/internal/comicinfo"
	"mangatag/internal/logging"
	"mangatag/internal/matching"
)

// Options controls Apply.
type Options struct {
	DryRun bool
	// Force replaces a descriptor the archive already has.
	Force bool
}

// ApplyResult summarizes an Apply pass.
type ApplyResult struct {
	Log     []string
	Found   int
	Matched int
	Updated int
	Kept    int
	Failed  int
}

// Succeeded counts matched archives that were written or kept (or would be,
// under a dry run).
func (r ApplyResult) Succeeded() int { return r.Updated + r.Kept }

// Apply writes the descriptor of every matched decision into its archive.
// Archives that already carry a descriptor are left alone unless Force is
// set. Failures are logged per archive and the pass continues.
func (s *Service) Apply(assignment matching.Assignment, opts Options) ApplyResult {
	res := ApplyResult{Found: len(assignment.Decisions)}
	res.Log = append(res.Log, assignment.Log...)
	for _, d := range assignment.Matches() {
		res.Matched++
		name := filepath.Base(d.Path)
		existing, err := s.store.HasEntry(d.Path, comicinfo.EntryName)
		if err != nil {
			res.Failed++
			res.Log = append(res.Log, fmt.Sprintf("failed: %s: %v", name, err))
			continue
		}
		if existing && !opts.Force {
			res.Kept++
			verb := "kept"
			if opts.DryRun {
				verb = "would keep"
			}
			res.Log = append(res.Log, fmt.Sprintf("%s existing ComicInfo.xml: %s", verb, name))
			continue
		}
		if opts.DryRun {
			res.Updated++
			res.Log = append(res.Log, fmt.Sprintf("would write %s -> %s", d.Source.Path, name))
			continue
		}
		data, err := os.ReadFile(d.Source.Path)
		if err == nil {
			err = s.store.WriteEntry(d.Path, comicinfo.EntryName, data)
		}
		if err != nil {
			res.Failed++
			res.Log = append(res.Log, fmt.Sprintf("failed: %s: %v", name, err))
			logging.WarnWithContext(s.logger, "apply descriptor failed", "xml_apply_failed",
				logging.String(logging.FieldArchive, d.Path),
				logging.String("source", d.Source.Path),
				logging.Error(err),
			)
			continue
		}
		res.Updated++
		res.Log = append(res.Log, fmt.Sprintf("wrote %s -> %s", d.Source.Path, name))
	}
	res.Log = append(res.Log, fmt.Sprintf("done: found %d, matched %d, updated %d, kept %d, failed %d, succeeded %d, dry-run=%t",
		res.Found, res.Matched, res.Updated, res.Kept, res.Failed, res.Succeeded(), opts.DryRun))
	return res
}
