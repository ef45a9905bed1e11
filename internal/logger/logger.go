package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures the process logger
type Options struct {
	Service string
	Level   string
	// Format is "json" or "text" (default)
	Format    string
	AddSource bool
	Output    io.Writer
}

// New builds the logger and installs it as the slog default
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(out, handlerOpts)
	} else {
		h = slog.NewTextHandler(out, handlerOpts)
	}

	base := slog.New(h)
	if opts.Service != "" {
		base = base.With("service", opts.Service)
	}

	slog.SetDefault(base)
	return base
}

// Discard returns a logger that drops every record, for tests
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
