// Package deps resolves and checks the external programs mangatag runs.
//
// Only the interactive editor used by `mangatag edit` is external today.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement names an external program and whether commands can work
// without it.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is a Requirement after a PATH lookup. Detail explains why the
// program is unavailable and is empty otherwise.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// CheckBinaries looks every requirement up on PATH, in order.
func CheckBinaries(requirements []Requirement) []Status {
	out := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		out[i] = Status{Requirement: req}
		out[i].Available, out[i].Detail = lookup(req.Command)
	}
	return out
}

func lookup(command string) (bool, string) {
	if command == "" {
		return false, "command not configured"
	}
	if _, err := exec.LookPath(command); err != nil {
		return false, fmt.Sprintf("binary %q not found", command)
	}
	return true, ""
}

// ResolveEditor returns the editor command line from $VISUAL, then $EDITOR,
// then vi. Values are split on whitespace so "code --wait" works.
func ResolveEditor() []string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if argv := strings.Fields(os.Getenv(key)); len(argv) > 0 {
			return argv
		}
	}
	return []string{"vi"}
}

// EditorRequirement describes the editor used by `mangatag edit`.
func EditorRequirement() Requirement {
	return Requirement{
		Name:        "Editor",
		Command:     ResolveEditor()[0],
		Description: "Used by `mangatag edit` ($VISUAL or $EDITOR)",
		Optional:    true,
	}
}
