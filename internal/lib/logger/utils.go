package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"cineops/proj/internal/lib/logger/handlers/slogpretty"

	"github.com/jackc/pgx/v5/tracelog"
)

// SetupLogger writes to stderr so that stdout only carries command output.
func SetupLogger(debug bool) *slog.Logger {
	return NewLogger(os.Stderr, debug)
}

func NewLogger(w io.Writer, debug bool) *slog.Logger {
	var handler slog.Handler
	if debug {
		handler = slogpretty.NewPrettyHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}

type pgxLogger struct {
	log *slog.Logger
}

func (l pgxLogger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	attrs := make([]slog.Attr, 0, len(data))
	for k, v := range data {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.log.LogAttrs(ctx, slogLevel(level), msg, attrs...)
}

func slogLevel(level tracelog.LogLevel) slog.Level {
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		return slog.LevelDebug
	case tracelog.LogLevelWarn:
		return slog.LevelWarn
	case tracelog.LogLevelError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewPgxTracer forwards pgx query events to log.
func NewPgxTracer(log *slog.Logger) *tracelog.TraceLog {
	return &tracelog.TraceLog{
		Logger:   pgxLogger{log.With("component", "pgx")},
		LogLevel: tracelog.LogLevelInfo,
	}
}
