package preflight

import (
	"mangatag/internal/config"
	"mangatag/internal/deps"
	"mangatag/internal/scriptconv"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Library directory (when configured)
	if cfg.Paths.LibraryDir != "" {
		results = append(results, CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir))
	}
	results = append(results,
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Lock directory", cfg.Paths.LockDir),
	)
	for _, base := range cfg.Paths.AllowedBasePaths {
		results = append(results, CheckDirectoryAccess("Allowed base "+base, base))
	}

	if cfg.Convert.Enabled {
		results = append(results, CheckConverter(func() (scriptconv.Converter, error) {
			return scriptconv.NewOpenCC()
		}))
	}

	for _, status := range deps.CheckBinaries([]deps.Requirement{deps.EditorRequirement()}) {
		r := Result{Name: status.Name, Passed: status.Available || status.Optional, Detail: status.Command}
		if !status.Available {
			r.Detail = status.Detail
		}
		results = append(results, r)
	}

	return results
}
