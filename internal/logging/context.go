package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSession is the standardized structured logging key for scan session tokens.
	FieldSession = "session"
	// FieldDir is the standardized structured logging key for the directory being processed.
	FieldDir = "dir"
	// FieldArchive is the standardized structured logging key for archive paths.
	FieldArchive = "archive"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for a failure.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	sessionKey contextKey = iota
	dirKey
)

// WithSession attaches a scan session token to ctx.
func WithSession(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionKey, strings.TrimSpace(token))
}

// WithDir attaches the working directory to ctx.
func WithDir(ctx context.Context, dir string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, dirKey, strings.TrimSpace(dir))
}

// SessionFromContext returns the scan session token stored in ctx.
func SessionFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	token, ok := ctx.Value(sessionKey).(string)
	return token, ok && token != ""
}

// DirFromContext returns the working directory stored in ctx.
func DirFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	dir, ok := ctx.Value(dirKey).(string)
	return dir, ok && dir != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if token, ok := SessionFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSession, token))
	}
	if dir, ok := DirFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldDir, dir))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(toArgs(fields)...)
}
