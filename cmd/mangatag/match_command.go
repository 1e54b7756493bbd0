package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"mangatag/internal/archive"
	"mangatag/internal/matching"
	"mangatag/internal/xmlsource"
)

type matchDecisionJSON struct {
	Title   string  `json:"title"`
	Folder  string  `json:"folder"`
	Source  string  `json:"source"`
	Archive string  `json:"archive,omitempty"`
	Score   float64 `json:"score"`
	Basis   string  `json:"basis,omitempty"`
	Status  string  `json:"status"`
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var strategyFlag string
	var threshold float64
	var dryRun bool
	var force bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "match DIR XMLROOT",
		Short: "Pair external ComicInfo.xml files with archives and embed them",
		Long: `Find ComicInfo.xml files in the chapter folders of XMLROOT (directly or under
an xml/ subfolder), match each one to an archive of DIR by title or folder
name and write it into the archive. Archives that already have a descriptor
are kept unless --force is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			dir, err := ctx.resolveDir(args[0])
			if err != nil {
				return err
			}
			root, err := ctx.resolveDir(args[1])
			if err != nil {
				return err
			}

			strategy, err := matching.ParseStrategy(cfg.Match.Strategy)
			if cmd.Flags().Changed("strategy") {
				strategy, err = matching.ParseStrategy(strategyFlag)
			}
			if err != nil {
				return err
			}
			minScore := cfg.Match.Threshold
			if cmd.Flags().Changed("threshold") {
				minScore = threshold
			}
			if minScore < 0 || minScore > 1 {
				return fmt.Errorf("threshold must be between 0 and 1, got %g", minScore)
			}
			opts := xmlsource.Options{DryRun: dryRun, Force: cfg.Match.Force || force}

			svc := ctx.xmlService()
			sources, err := svc.Discover(root)
			if err != nil {
				return err
			}
			archives, err := archive.List(dir)
			if err != nil {
				return err
			}
			assignment := matching.Assign(sources, archives, strategy, minScore)

			var result xmlsource.ApplyResult
			apply := func() error {
				result = svc.Apply(assignment, opts)
				return nil
			}
			if dryRun {
				_ = apply()
			} else if err := ctx.withDirLock(dir, apply); err != nil {
				return err
			}

			if asJSON {
				if err := writeJSON(cmd, matchDecisionsJSON(assignment)); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderMatchReport(assignment))
				printLines(out, result.Log)
			}
			if result.Failed > 0 {
				return fmt.Errorf("match finished with %d failed archive(s)", result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "Label to match: title, folder or both (default from config)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.6, "Minimum similarity score between 0 and 1")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report matches without writing archives")
	cmd.Flags().BoolVar(&force, "force", false, "Replace descriptors archives already have")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print decisions as JSON")
	return cmd
}

func renderMatchReport(assignment matching.Assignment) string {
	if len(assignment.Decisions) == 0 {
		return "No ComicInfo.xml files found"
	}
	rows := make([][]string, 0, len(assignment.Decisions))
	for _, d := range assignment.Decisions {
		archiveName := ""
		if d.Path != "" {
			archiveName = filepath.Base(d.Path)
		}
		rows = append(rows, []string{
			d.Source.Folder,
			d.Source.Title,
			archiveName,
			strconv.FormatFloat(d.Score, 'f', 2, 64),
			d.Basis,
			string(d.Status),
		})
	}
	return renderTable(
		[]string{"Folder", "Title", "Archive", "Score", "Basis", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

func matchDecisionsJSON(assignment matching.Assignment) []matchDecisionJSON {
	out := make([]matchDecisionJSON, 0, len(assignment.Decisions))
	for _, d := range assignment.Decisions {
		out = append(out, matchDecisionJSON{
			Title:   d.Source.Title,
			Folder:  d.Source.Folder,
			Source:  d.Source.Path,
			Archive: d.Path,
			Score:   d.Score,
			Basis:   d.Basis,
			Status:  string(d.Status),
		})
	}
	return out
}
