package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	natomic "github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"mangatag/internal/archive"
	"mangatag/internal/config"
	"mangatag/internal/dirlock"
	"mangatag/internal/logging"
	"mangatag/internal/preflight"
	"mangatag/internal/scriptconv"
	"mangatag/internal/session"
	"mangatag/internal/table"
	"mangatag/internal/tagsync"
	"mangatag/internal/xmlsource"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger

	storeOnce sync.Once
	store     *archive.Store

	convOnce sync.Once
	conv     scriptconv.Converter
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath, c.configExists = resolved, exists
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	if cfg == nil {
		def := config.Default()
		return &def
	}
	return cfg
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger setup failed, continuing without logs: %v\n", err)
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) archiveStore() *archive.Store {
	c.storeOnce.Do(func() {
		c.store = archive.NewStore(c.loggerValue())
	})
	return c.store
}

func (c *commandContext) engine() *tagsync.Engine {
	return tagsync.NewEngine(c.archiveStore(), c.loggerValue())
}

func (c *commandContext) xmlService() *xmlsource.Service {
	return xmlsource.NewService(c.archiveStore(), c.loggerValue())
}

func (c *commandContext) sessions() *session.Cache {
	return session.NewCache(c.configValue().Session.File, c.loggerValue())
}

// converter returns nil when script conversion is disabled or unavailable.
func (c *commandContext) converter() scriptconv.Converter {
	c.convOnce.Do(func() {
		if !c.configValue().Convert.Enabled {
			return
		}
		conv, err := scriptconv.NewOpenCC()
		if err != nil {
			logging.WarnWithContext(c.loggerValue(), "script conversion disabled", "converter_unavailable",
				logging.Error(err),
				logging.String(logging.FieldImpact, "convert transforms and converted search forms are skipped"),
				logging.String(logging.FieldErrorHint, "set [convert] enabled = false to silence this warning"),
			)
			return
		}
		c.conv = conv
	})
	return c.conv
}

// resolveDir expands arg and checks it is an accessible directory under the
// configured allowed base paths.
func (c *commandContext) resolveDir(arg string) (string, error) {
	expanded, err := config.ExpandPath(strings.TrimSpace(arg))
	if err != nil {
		return "", err
	}
	dir, err := preflight.EnsureAllowed(expanded, c.configValue().Paths.AllowedBasePaths)
	if err != nil {
		return "", err
	}
	if err := preflight.RequireDirectory(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// withDirLock runs fn while holding the pass lock for dir.
func (c *commandContext) withDirLock(dir string, fn func() error) error {
	lock, err := dirlock.Acquire(c.configValue().Paths.LockDir, dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logging.WarnWithContext(c.loggerValue(), "lock release failed", "lock_release_failed",
				logging.String(logging.FieldDir, dir),
				logging.Error(err),
				logging.String(logging.FieldImpact, "the lock file stays until the process exits"),
			)
		}
	}()
	return fn()
}

// snapshotFor returns the archives and baseline to use for dir. With a token
// the scan snapshot is used; otherwise the current directory listing with no
// baseline.
func (c *commandContext) snapshotFor(dir, token string) (session.Snapshot, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		archives, err := archive.List(dir)
		if err != nil {
			return session.Snapshot{}, err
		}
		return session.Snapshot{Dir: dir, Archives: archives}, nil
	}
	snap, ok := c.sessions().Get(token)
	if !ok {
		return session.Snapshot{}, fmt.Errorf("%w: %s", session.ErrUnknownToken, token)
	}
	if snap.Dir != dir {
		return session.Snapshot{}, fmt.Errorf("session %s was scanned from %s, not %s", token, snap.Dir, dir)
	}
	return snap, nil
}

func readTableFile(path string) (string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", fmt.Errorf("read table: %w", err)
	}
	return table.Decode(data), nil
}

func writeTableFile(path, text string) error {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := natomic.WriteFile(expanded, strings.NewReader(text)); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

func printLines(out io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
