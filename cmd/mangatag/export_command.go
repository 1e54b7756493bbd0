package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	natomic "github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"mangatag/internal/archive"
	"mangatag/internal/config"
	"mangatag/internal/tagsync"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var tablePath string
	var outputDir string
	var noHeader bool

	cmd := &cobra.Command{
		Use:   "export DIR",
		Short: "Write the table of a directory to a timestamped CSV file",
		Long: `Write a CSV file named <dir>_<YYYYmmdd_HHMMSS>_<id>.csv into --output-dir.
The content comes from --table when given, otherwise it is read from the
archives of DIR.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.resolveDir(args[0])
			if err != nil {
				return err
			}
			var text string
			if strings.TrimSpace(tablePath) != "" {
				if text, err = readTableFile(tablePath); err != nil {
					return err
				}
			}
			archives, err := archive.List(dir)
			if err != nil {
				return err
			}
			includeHeader := ctx.configValue().Scan.IncludeHeader && !noHeader
			data, name := ctx.engine().Export(text, includeHeader, dir, archives)

			target := outputDir
			if strings.TrimSpace(target) == "" {
				if target, err = os.Getwd(); err != nil {
					return err
				}
			}
			if target, err = config.ExpandPath(target); err != nil {
				return err
			}
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			path := filepath.Join(target, name)
			if err := natomic.WriteFile(path, strings.NewReader(string(data))); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d archive(s) to %s\n", len(archives), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tablePath, "table", "t", "", "Table file to export instead of reading the archives")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the exported file (default current directory)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit the header row")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var noHeader bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Normalize an uploaded CSV file (encoding, byte order mark, header)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			includeHeader := ctx.configValue().Scan.IncludeHeader && !noHeader
			text := tagsync.Import(content, includeHeader)
			if strings.TrimSpace(outputPath) == "" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			if err := writeTableFile(outputPath, text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote table to %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the table to a file instead of stdout")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Drop a leading header row")
	return cmd
}
