package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mangatag/internal/session"
	"mangatag/internal/tagsync"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var sortFlag string
	var noHeader bool
	var noSession bool

	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Build a CSV table from the archives in a directory",
		Long: `Read the ComicInfo.xml of every .cbz/.zip archive directly inside DIR and
print one CSV row per archive. The scan is remembered under a session token
that save and rename accept with --session, so unchanged rows are skipped.`,
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

			logOut := cmd.ErrOrStderr()
			if outputPath != "" {
				if err := writeTableFile(outputPath, result.Table); err != nil {
					return err
				}
				logOut = cmd.OutOrStdout()
			} else {
				fmt.Fprint(cmd.OutOrStdout(), result.Table)
			}
			printLines(logOut, result.Log)
			if outputPath != "" {
				fmt.Fprintf(logOut, "Wrote table to %s\n", outputPath)
			}

			if noSession {
				return nil
			}
			token, err := rememberScan(ctx, result, cfg.SessionTTL())
			if err != nil {
				return err
			}
			fmt.Fprintf(logOut, "Session: %s\n", token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the table to a file instead of stdout")
	cmd.Flags().StringVar(&sortFlag, "sort", "", "Archive order: numeric, lexical or number (default from config)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit the header row")
	cmd.Flags().BoolVar(&noSession, "no-session", false, "Do not record a scan session")
	return cmd
}

func rememberScan(ctx *commandContext, result tagsync.ScanResult, ttl time.Duration) (string, error) {
	cache := ctx.sessions()
	if _, err := cache.SweepExpired(); err != nil {
		return "", fmt.Errorf("sweep sessions: %w", err)
	}
	token := session.NewToken()
	snap := session.Snapshot{
		Dir:      result.Dir,
		Archives: result.Archives,
		Baseline: result.Baseline,
	}
	if err := cache.Put(token, snap, ttl); err != nil {
		return "", fmt.Errorf("record session: %w", err)
	}
	return token, nil
}
