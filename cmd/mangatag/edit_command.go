package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"mangatag/internal/deps"
	"mangatag/internal/tagsync"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	var sortFlag string
	var noHeader bool
	var noCheckCount bool

	cmd := &cobra.Command{
		Use:   "edit DIR",
		Short: "Scan a directory, open the table in $EDITOR and save the result",
		Long: `Scan DIR into a temporary CSV file, open it with $VISUAL or $EDITOR and write
the edited rows back when the editor exits. When the table is rejected (for
example a duplicated file name) the editor is offered again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			dir, err := ctx.resolveDir(args[0])
			if err != nil {
				return err
			}
			mode := tagsync.SortMode(cfg.Scan.SortMode)
			if strings.TrimSpace(sortFlag) != "" {
				if mode, err = tagsync.ParseSortMode(sortFlag); err != nil {
					return err
				}
			}
			includeHeader := cfg.Scan.IncludeHeader && !noHeader

			result, err := ctx.engine().Scan(dir, includeHeader, mode)
			if err != nil {
				return err
			}
			token, err := rememberScan(ctx, result, cfg.SessionTTL())
			if err != nil {
				return err
			}
			defer ctx.sessions().Remove(token)

			tmp, err := os.CreateTemp("", "mangatag-*.csv")
			if err != nil {
				return fmt.Errorf("create edit file: %w", err)
			}
			path := tmp.Name()
			defer os.Remove(path)
			_, werr := io.WriteString(tmp, result.Table)
			if cerr := tmp.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				return fmt.Errorf("write edit file: %w", werr)
			}

			opts := tagsync.SaveOptions{CheckCount: cfg.Save.CheckCount && !noCheckCount}
			return editLoop(cmd, ctx, dir, token, path, result.Table, opts)
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "", "Archive order: numeric, lexical or number (default from config)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit the header row")
	cmd.Flags().BoolVar(&noCheckCount, "no-check-count", false, "Allow rows to be removed from the table")
	return cmd
}

func editLoop(cmd *cobra.Command, ctx *commandContext, dir, token, path, original string, opts tagsync.SaveOptions) error {
	out := cmd.OutOrStdout()
	prompt := bufio.NewReader(cmd.InOrStdin())
	for {
		if err := runEditor(cmd, path); err != nil {
			return err
		}
		text, err := readTableFile(path)
		if err != nil {
			return err
		}
		if text == original {
			fmt.Fprintln(out, "No changes")
			return nil
		}
		err = ctx.withDirLock(dir, func() error {
			return runSave(cmd, ctx, dir, token, text, opts)
		})
		if err == nil || !retryableTableError(err) {
			return err
		}
		fmt.Fprintf(out, "%v\nEdit again? [Y/n] ", err)
		answer, readErr := prompt.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer == "n" || answer == "no" || (readErr != nil && answer == "") {
			return err
		}
	}
}

func retryableTableError(err error) bool {
	for _, target := range []error{tagsync.ErrEmptyTable, tagsync.ErrInvalidTable, tagsync.ErrDuplicateKey, tagsync.ErrCountMismatch} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func runEditor(cmd *cobra.Command, path string) error {
	argv := deps.ResolveEditor()
	editor := exec.CommandContext(cmd.Context(), argv[0], append(argv[1:], path)...)
	editor.Stdin = os.Stdin
	editor.Stdout = cmd.OutOrStdout()
	editor.Stderr = cmd.ErrOrStderr()
	if err := editor.Run(); err != nil {
		return fmt.Errorf("run editor %s: %w", argv[0], err)
	}
	return nil
}
