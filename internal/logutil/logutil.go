// Package logutil configures the process-wide structured logger.
//
// The terminal UI owns stdout and stderr while it runs, so by default logs
// are discarded. Setup points them at a file (or any writer) instead.
package logutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Format selects the handler used for log output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" or "json", case-insensitively. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown log format %q", s)
}

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
	debugEnabled bool
)

func init() {
	Setup(io.Discard, false, FormatText)
}

// Setup configures the global logger. Safe for concurrent use.
func Setup(w io.Writer, debug bool, format Format) {
	mu.Lock()
	defer mu.Unlock()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	debugEnabled = debug

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// OpenFile opens (creating parent directories) a log file for appending.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// IsDebugEnabled reports whether debug logging is on.
func IsDebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugEnabled
}

// Logger returns the global slog.Logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// ComponentLogger is a logger scoped to one component. It resolves the
// global logger on every call, so loggers created before Setup still follow
// the final configuration.
type ComponentLogger struct {
	component string
	fields    []any
}

// NewLogger creates a logger scoped to a named component.
func NewLogger(component string) *ComponentLogger {
	return &ComponentLogger{component: component}
}

// WithFields returns a logger with additional alternating key-value pairs.
func (l *ComponentLogger) WithFields(fields ...any) *ComponentLogger {
	merged := make([]any, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &ComponentLogger{component: l.component, fields: merged}
}

func (l *ComponentLogger) slogger() *slog.Logger {
	return Logger().With("component", l.component).With(l.fields...)
}

func (l *ComponentLogger) Debug(msg string, args ...any) { l.slogger().Debug(msg, args...) }
func (l *ComponentLogger) Info(msg string, args ...any)  { l.slogger().Info(msg, args...) }
func (l *ComponentLogger) Warn(msg string, args ...any)  { l.slogger().Warn(msg, args...) }
func (l *ComponentLogger) Error(msg string, args ...any) { l.slogger().Error(msg, args...) }
