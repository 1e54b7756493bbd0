package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mangatag/internal/session"
	"mangatag/internal/tagsync"
)

func newSaveCommand(ctx *commandContext) *cobra.Command {
	var token string
	var noCheckCount bool

	cmd := &cobra.Command{
		Use:   "save DIR TABLE",
		Short: "Write an edited CSV table back into the archives of a directory",
		Args:  cobra.ExactArgs(2),
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
			opts := tagsync.SaveOptions{CheckCount: cfg.Save.CheckCount && !noCheckCount}
			return ctx.withDirLock(dir, func() error {
				return runSave(cmd, ctx, dir, token, text, opts)
			})
		},
	}

	cmd.Flags().StringVar(&token, "session", "", "Scan session token; rows unchanged since that scan are skipped")
	cmd.Flags().BoolVar(&noCheckCount, "no-check-count", false, "Allow the table and the directory to list different files")
	return cmd
}

// runSave streams one save pass. The caller holds the directory lock.
func runSave(cmd *cobra.Command, ctx *commandContext, dir, token, text string, opts tagsync.SaveOptions) error {
	snap, err := ctx.snapshotFor(dir, token)
	if err != nil {
		return err
	}
	opts.Baseline = snap.Baseline

	out := cmd.OutOrStdout()
	var result tagsync.SaveResult
	for line := range ctx.engine().SaveStream(snap.Archives, text, opts, &result) {
		fmt.Fprintln(out, line)
	}
	if !result.OK {
		return result.Err
	}
	if token != "" && result.Failed == 0 {
		baseline := tagsync.BaselineFromTable(text)
		if err := ctx.sessions().Replace(token, func(s *session.Snapshot) {
			s.Baseline = baseline
		}); err != nil {
			return fmt.Errorf("update session: %w", err)
		}
	}
	if result.Failed > 0 {
		return fmt.Errorf("save finished with %d failed archive(s)", result.Failed)
	}
	return nil
}
