// Package logging bootstraps the zerolog logger shared across tripmap.
//
// The TUI owns the terminal while it runs, so interactive sessions log
// to a file; stderr is only safe before the program enters the
// alternate screen. Components receive the logger by value and derive
// child loggers with With().
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error,
	// disabled. Default: info.
	Level string

	// Format is json or console. Default: json.
	Format string

	// File receives the output when set. Required in TUI mode.
	File string

	// Output overrides the destination; mainly for tests. Ignored when
	// File is set.
	Output io.Writer
}

// New builds a logger per cfg. The returned close function releases the
// log file, if any, and is safe to call when no file was opened.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}

	closeFn := func() error { return nil }
	out := cfg.Output
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("logging: open %s: %w", cfg.File, err)
		}
		out = f
		closeFn = f.Close
	}
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    cfg.File != "",
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	log := zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().Timestamp().Logger()
	return log, closeFn, nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
