package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mangatag/internal/session"
	"mangatag/internal/tagsync"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var rule string
	var token string
	var conflict string
	var replaceWhitespace bool
	var replaceChar string
	var preview bool

	cmd := &cobra.Command{
		Use:   "rename DIR TABLE",
		Short: "Rename archives from a template filled with table values",
		Long: `Rename every archive of DIR that has a row in TABLE using --rule, a file name
template without extension. Placeholders: {index} (row position), {name}
(current name) and any column such as {title}, {series} or {number}; a width
like {number:03} zero pads. TABLE is rewritten with the new file names.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			dir, err := ctx.resolveDir(args[0])
			if err != nil {
				return err
			}
			text, err := readTableFile(args[1])
			if err != nil {
				return err
			}
			if strings.TrimSpace(rule) == "" {
				return errors.New("--rule is required")
			}

			opts := tagsync.RenameOptions{
				Rule:              rule,
				ReplaceWhitespace: cfg.Rename.ReplaceWhitespace,
				ReplaceChar:       cfg.Rename.ReplaceChar,
			}
			if cmd.Flags().Changed("replace-whitespace") {
				opts.ReplaceWhitespace = replaceWhitespace
			}
			if cmd.Flags().Changed("replace-char") {
				opts.ReplaceChar = replaceChar
			}
			policyName := cfg.Rename.Conflict
			if cmd.Flags().Changed("conflict") {
				policyName = conflict
			}
			if opts.Policy, err = tagsync.ParseConflictPolicy(policyName); err != nil {
				return err
			}

			snap, err := ctx.snapshotFor(dir, token)
			if err != nil {
				return err
			}
			engine := ctx.engine()

			if preview {
				pairs, err := engine.PreviewRename(snap.Archives, text, opts)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRenamePreview(pairs))
				return nil
			}

			return ctx.withDirLock(dir, func() error {
				result, err := engine.Rename(dir, snap.Archives, text, opts, snap.Baseline)
				if err != nil {
					return err
				}
				printLines(cmd.OutOrStdout(), result.Log)
				if err := writeTableFile(args[1], result.Table); err != nil {
					return err
				}
				if token != "" {
					if err := ctx.sessions().Replace(token, func(s *session.Snapshot) {
						s.Archives = result.Archives
						s.Baseline = result.Baseline
					}); err != nil {
						return fmt.Errorf("update session: %w", err)
					}
				}
				if result.Failed > 0 {
					return fmt.Errorf("rename finished with %d failed archive(s)", result.Failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&rule, "rule", "r", "", "File name template, e.g. \"{series} {number:03}\"")
	cmd.Flags().StringVar(&token, "session", "", "Scan session token to rename against")
	cmd.Flags().StringVar(&conflict, "conflict", "", "Conflict policy: suffix or abort (default from config)")
	cmd.Flags().BoolVar(&replaceWhitespace, "replace-whitespace", true, "Replace whitespace and unsafe characters")
	cmd.Flags().StringVar(&replaceChar, "replace-char", "_", "Replacement for whitespace and unsafe characters")
	cmd.Flags().BoolVar(&preview, "preview", false, "Show the planned names without renaming")
	return cmd
}

func renderRenamePreview(pairs []tagsync.RenamePair) string {
	if len(pairs) == 0 {
		return "Nothing to rename"
	}
	rows := make([][]string, 0, len(pairs))
	for i, pair := range pairs {
		status := ""
		if pair.Old == pair.New {
			status = "unchanged"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), pair.Old, pair.New, status})
	}
	return renderTable([]string{"#", "Current", "New", "Status"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft})
}
