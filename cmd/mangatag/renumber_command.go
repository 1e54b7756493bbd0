package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenumberCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "renumber XMLROOT",
		Short: "Set <Number> of each chapter folder's ComicInfo.xml from the folder name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := ctx.resolveDir(args[0])
			if err != nil {
				return err
			}
			var result struct {
				log    []string
				failed int
			}
			run := func() error {
				res, err := ctx.xmlService().Renumber(root, dryRun)
				result.log, result.failed = res.Log, res.Failed
				return err
			}
			if dryRun {
				err = run()
			} else {
				err = ctx.withDirLock(root, run)
			}
			printLines(cmd.OutOrStdout(), result.log)
			if err != nil {
				return err
			}
			if result.failed > 0 {
				return fmt.Errorf("renumber finished with %d failed file(s)", result.failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the new numbers without writing")
	return cmd
}
