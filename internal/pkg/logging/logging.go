package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process-wide logger.
type Options struct {
	Level  string // debug, info, warn or error (default info)
	Format string // json or text (default json)
	// File, when set, sends output to a size-rotated file instead of stdout.
	File       string
	MaxSizeMB  int
	MaxAgeDays int
}

// Setup initialises the global slog default logger and returns it.
func Setup(opts Options) *slog.Logger {
	handler := NewHandler(writer(opts), opts)
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// NewHandler builds the slog handler for w.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	if strings.ToLower(opts.Format) == "text" {
		return slog.NewTextHandler(w, hopts)
	}
	return slog.NewJSONHandler(w, hopts)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func writer(opts Options) io.Writer {
	if opts.File == "" {
		return os.Stdout
	}
	w := &lumberjack.Logger{
		Filename: opts.File,
		MaxSize:  opts.MaxSizeMB, // MB
		MaxAge:   opts.MaxAgeDays,
		Compress: true,
	}
	if w.MaxSize <= 0 {
		w.MaxSize = 64
	}
	return w
}

type ctxKey struct{}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored by WithLogger, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
