package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mangatag/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, environment checks and active scan sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail += " (not found, defaults in use)"
			}
			lines := renderSectionHeader("Configuration", colorize)
			lines = append(lines,
				renderStatusLine("Config file", statusInfo, configDetail, colorize),
				renderStatusLine("Sort mode", statusInfo, cfg.Scan.SortMode, colorize),
				renderStatusLine("Header row", statusInfo, yesNo(cfg.Scan.IncludeHeader), colorize),
				renderStatusLine("Match threshold", statusInfo, strconv.FormatFloat(cfg.Match.Threshold, 'f', 2, 64), colorize),
				renderStatusLine("Script conversion", statusInfo, yesNo(cfg.Convert.Enabled), colorize),
			)

			results := preflight.RunAll(cfg)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			lines = append(lines, checkLines(results, colorize)...)

			sessions := ctx.sessions()
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Sessions", colorize)...)
			if _, err := sessions.SweepExpired(); err != nil {
				lines = append(lines, renderStatusLine("Scan sessions", statusWarn, err.Error(), colorize))
			} else {
				lines = append(lines, renderStatusLine("Scan sessions", statusInfo, fmt.Sprintf("%d active", sessions.Count()), colorize))
			}
			printLines(out, lines)

			for _, r := range results {
				if !r.Passed {
					return errors.New("one or more checks failed")
				}
			}
			return nil
		},
	}
}
