package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mangatag/internal/scriptconv"
	"mangatag/internal/table"
)

type batchFlags struct {
	columns  []string
	noHeader bool
	inPlace  bool
	output   string
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Apply a transform to columns of a CSV table",
		Long: `Transform selected columns of every row of a table file. The FileName column
is never changed. Columns are chosen with --column (repeatable, "*" for all)
and located by header text when the table has a header.`,
	}

	batchCmd.AddCommand(newBatchTransformCommand(ctx, "set TABLE VALUE", "Set the selected cells to VALUE", 2,
		func(text string, header bool, cols []string, args []string) string {
			return table.Set(text, header, cols, args[0])
		}))
	batchCmd.AddCommand(newBatchReplaceCommand(ctx))
	batchCmd.AddCommand(newBatchTransformCommand(ctx, "prefix TABLE TEXT", "Prepend TEXT to the selected cells", 2,
		func(text string, header bool, cols []string, args []string) string {
			return table.Prefix(text, header, cols, args[0])
		}))
	batchCmd.AddCommand(newBatchTransformCommand(ctx, "suffix TABLE TEXT", "Append TEXT to the selected cells", 2,
		func(text string, header bool, cols []string, args []string) string {
			return table.Suffix(text, header, cols, args[0])
		}))
	batchCmd.AddCommand(newBatchConvertCommand(ctx))
	batchCmd.AddCommand(newBatchTransformCommand(ctx, "number TABLE", "Fill Number from the leading digits of FileName", 1,
		func(text string, header bool, _ []string, _ []string) string {
			return table.NumberFromName(text, header)
		}))

	return batchCmd
}

// transformFunc receives the positional arguments after TABLE.
type transformFunc func(text string, includeHeader bool, columns []string, args []string) string

func newBatchTransformCommand(ctx *commandContext, use, short string, nargs int, fn transformFunc) *cobra.Command {
	flags := &batchFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx, flags, args[0], func(text string, header bool) string {
				return fn(text, header, flags.columns, args[1:])
			})
		},
	}
	addBatchFlags(cmd, flags)
	return cmd
}

func newBatchReplaceCommand(ctx *commandContext) *cobra.Command {
	flags := &batchFlags{}
	var useRegex bool
	cmd := &cobra.Command{
		Use:   "replace TABLE FIND REPLACEMENT",
		Short: "Replace FIND with REPLACEMENT in the selected cells",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx, flags, args[0], func(text string, header bool) string {
				return table.FindReplace(text, header, flags.columns, args[1], args[2], useRegex)
			})
		},
	}
	addBatchFlags(cmd, flags)
	cmd.Flags().BoolVar(&useRegex, "regex", false, "Treat FIND as a regular expression ($1 references groups)")
	return cmd
}

func newBatchConvertCommand(ctx *commandContext) *cobra.Command {
	flags := &batchFlags{}
	var direction string
	cmd := &cobra.Command{
		Use:   "convert TABLE",
		Short: "Convert the selected cells between traditional and simplified script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := scriptconv.ParseDirection(direction)
			if err != nil {
				return err
			}
			conv := ctx.converter()
			if conv == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Script conversion is unavailable; the table is left unchanged")
			}
			return runBatch(cmd, ctx, flags, args[0], func(text string, header bool) string {
				return table.Convert(text, header, flags.columns, conv, dir)
			})
		},
	}
	addBatchFlags(cmd, flags)
	cmd.Flags().StringVar(&direction, "direction", string(scriptconv.T2S), "Conversion direction: t2s or s2t")
	return cmd
}

func addBatchFlags(cmd *cobra.Command, flags *batchFlags) {
	cmd.Flags().StringSliceVarP(&flags.columns, "column", "k", []string{table.AllColumns}, "Column to transform (repeatable, \"*\" for all)")
	cmd.Flags().BoolVar(&flags.noHeader, "no-header", false, "The table has no header row")
	cmd.Flags().BoolVarP(&flags.inPlace, "in-place", "w", false, "Rewrite TABLE instead of printing the result")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the result to a file")
}

func runBatch(cmd *cobra.Command, ctx *commandContext, flags *batchFlags, path string, apply func(text string, includeHeader bool) string) error {
	text, err := readTableFile(path)
	if err != nil {
		return err
	}
	includeHeader := ctx.configValue().Scan.IncludeHeader && !flags.noHeader
	result := apply(text, includeHeader)

	target := flags.output
	if flags.inPlace {
		target = path
	}
	if target == "" {
		fmt.Fprint(cmd.OutOrStdout(), result)
		return nil
	}
	if err := writeTableFile(target, result); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote table to %s\n", target)
	return nil
}
