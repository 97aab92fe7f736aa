package logger

import (
	"io"
	"log/slog"
	"os"
)

type Logger struct {
	*slog.Logger
}

func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

func NewLogger(level slog.Level, output io.Writer) *Logger {
	return &Logger{slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return NewLogger(slog.LevelError, io.Discard)
}

func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
