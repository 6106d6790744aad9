// Package logger builds the zerolog loggers used by the txp commands.
//
// Diagnostics always go to a side channel (stderr by default) so that the
// account report written to stdout stays machine readable.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by the logger.
type ContextKey string

// LoggerKey is the context key for the logger instance.
const LoggerKey ContextKey = "logger"

// Options selects the logger output.
type Options struct {
	// JSON writes one JSON object per line instead of the human console format.
	JSON bool
	// Verbose enables debug events, one per applied record.
	Verbose bool
}

// New creates a logger writing to stderr.
func New(opts Options) zerolog.Logger {
	return NewWithWriter(os.Stderr, opts)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, opts Options) zerolog.Logger {
	if !opts.JSON {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    !IsTerminal(w),
		}
	}
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context, or a default stderr
// logger when there is none.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return New(Options{})
}

// WithFields adds structured fields to a logger.
func WithFields(logger zerolog.Logger, fields map[string]any) zerolog.Logger {
	ctx := logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}

// IsTerminal reports whether w is a terminal, Cygwin and MSYS ptys included.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
