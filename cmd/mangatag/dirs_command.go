package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mangatag/internal/library"
	"mangatag/internal/scriptconv"
)

func newDirsCommand(ctx *commandContext) *cobra.Command {
	dirsCmd := &cobra.Command{
		Use:   "dirs",
		Short: "List and search directories that contain archives",
	}
	dirsCmd.AddCommand(newDirsListCommand(ctx))
	dirsCmd.AddCommand(newDirsSearchCommand(ctx))
	return dirsCmd
}

func newDirsListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list [BASE]",
		Short: "List directories under BASE (default library_dir) that contain archives",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := libraryBase(ctx, args)
			if err != nil {
				return err
			}
			dirs, err := library.ListArchiveDirs(base)
			if err != nil {
				return err
			}
			return printDirs(cmd, base, dirs, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	return cmd
}

func newDirsSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search QUERY [BASE]",
		Short: "Search archive directories by name, script-converted name or pinyin",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := libraryBase(ctx, args[1:])
			if err != nil {
				return err
			}
			dirs, err := library.Search(base, args[0], limit, ctx.converter(), scriptconv.NewPinyin())
			if err != nil {
				return err
			}
			return printDirs(cmd, base, dirs, asJSON)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of results (0 for no limit)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	return cmd
}

func libraryBase(ctx *commandContext, args []string) (string, error) {
	base := ctx.configValue().Paths.LibraryDir
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		base = args[0]
	}
	return ctx.resolveDir(base)
}

func printDirs(cmd *cobra.Command, base string, dirs []string, asJSON bool) error {
	if asJSON {
		if dirs == nil {
			dirs = []string{}
		}
		return writeJSON(cmd, map[string]any{"base": base, "dirs": dirs})
	}
	out := cmd.OutOrStdout()
	if len(dirs) == 0 {
		fmt.Fprintln(out, "No matching directories")
		return nil
	}
	for _, dir := range dirs {
		fmt.Fprintln(out, dir)
	}
	return nil
}
