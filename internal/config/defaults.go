package config

import "time"

const (
	defaultConfigPath   = "~/.config/mangatag/config.toml"
	defaultLibraryDir   = "~/comics"
	defaultSortMode     = "numeric"
	defaultReplaceChar  = "_"
	defaultConflict     = "suffix"
	defaultThreshold    = 0.60
	defaultStrategy     = "both"
	defaultTTLHours     = 24
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	allowedBasePathsEnv = "MANGATAG_ALLOWED_BASE_PATHS"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     stateDir("logs"),
			LockDir:    stateDir("locks"),
		},
		Scan: Scan{
			SortMode:      defaultSortMode,
			IncludeHeader: true,
		},
		Save: Save{
			CheckCount: true,
		},
		Rename: Rename{
			ReplaceWhitespace: true,
			ReplaceChar:       defaultReplaceChar,
			Conflict:          defaultConflict,
		},
		Match: Match{
			Threshold: defaultThreshold,
			Strategy:  defaultStrategy,
		},
		Session: Session{
			TTLHours: defaultTTLHours,
			File:     stateDir("sessions.json"),
		},
		Convert: Convert{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// SessionTTL returns the scan snapshot lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLHours) * time.Hour
}
