package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type Key struct{}

var LoggerKey = Key{}

// LevelTrace is a custom trace level for slog
// Using LevelDebug - 4 which equals -8
const LevelTrace = slog.LevelDebug - 4

func ConfigLevelStringToSlogLevel(level string) slog.Level {
	switch level {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

// Options configures the logger built by NewLogger.
type Options struct {
	Level slog.Level
	// FilePath receives every record at or above Level. Empty means
	// records go to Stderr instead.
	FilePath string
	// Stderr receives the friendly rendering of error records.
	Stderr io.Writer
}

// NewLogger builds the CLI logger: a text handler writing to the log file
// with error records mirrored to stderr in a readable form. The returned
// closer releases the log file.
func NewLogger(opts Options) (*slog.Logger, io.Closer, error) {
	handlerOpts := &slog.HandlerOptions{
		Level: opts.Level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}

	if opts.FilePath == "" {
		return slog.New(slog.NewTextHandler(opts.Stderr, handlerOpts)), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open log file: %w", err)
	}

	var mirror slog.Handler
	if opts.Stderr != nil {
		mirror = NewFriendlyErrorHandler(opts.Stderr)
	}
	return slog.New(NewDualHandler(slog.NewTextHandler(f, handlerOpts), mirror)), f, nil
}
