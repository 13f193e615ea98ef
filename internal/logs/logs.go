// Package logs wires the process-wide slog configuration: a tinted console
// handler for humans, or a JSON file handler when --log-file is set.
package logs

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// ConsoleLogger installs a tinted stderr handler as the slog default and
// returns it. Color is dropped when stderr is not a terminal.
func ConsoleLogger(level slog.Level) *slog.Logger {
	w := os.Stderr
	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(w.Fd()),
	}))
	slog.SetDefault(logger)
	return logger
}

// FileLogger appends JSON records to path and installs the handler as the
// slog default. The returned closer flushes the file.
func FileLogger(path string, level slog.Level) (*slog.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))
	slog.SetDefault(logger)
	return logger, f.Close, nil
}

// ParseLevel maps a --log-level string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
