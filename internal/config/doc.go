// Package config loads, normalizes, and validates mangatag configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MANGATAG_ALLOWED_BASE_PATHS
// environment fallback. The Config type centralizes the defaults every CLI
// command needs (sort mode, rename policy, match threshold) so flags only have
// to override what differs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
