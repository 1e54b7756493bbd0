package config

// Paths contains directory configuration.
type Paths struct {
	LibraryDir       string   `toml:"library_dir"`
	LogDir           string   `toml:"log_dir"`
	LockDir          string   `toml:"lock_dir"`
	AllowedBasePaths []string `toml:"allowed_base_paths"`
}

// Scan contains defaults for building a table from a directory.
type Scan struct {
	SortMode      string `toml:"sort_mode"`
	IncludeHeader bool   `toml:"include_header"`
}

// Save contains defaults for writing a table back into archives.
type Save struct {
	CheckCount bool `toml:"check_count"`
}

// Rename contains defaults for rule based renames.
type Rename struct {
	ReplaceWhitespace bool   `toml:"replace_whitespace"`
	ReplaceChar       string `toml:"replace_char"`
	Conflict          string `toml:"conflict"`
}

// Match contains defaults for pairing external ComicInfo files with archives.
type Match struct {
	Threshold float64 `toml:"threshold"`
	Strategy  string  `toml:"strategy"`
	Force     bool    `toml:"force"`
}

// Session contains configuration for the scan snapshot cache.
type Session struct {
	TTLHours int    `toml:"ttl_hours"`
	File     string `toml:"file"`
}

// Convert toggles traditional/simplified script conversion.
type Convert struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the decoded config.toml. Each section maps to one command
// family; Paths and Logging are shared by all of them.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Scan    Scan    `toml:"scan"`
	Save    Save    `toml:"save"`
	Rename  Rename  `toml:"rename"`
	Match   Match   `toml:"match"`
	Session Session `toml:"session"`
	Convert Convert `toml:"convert"`
	Logging Logging `toml:"logging"`
}
