package logger

import (
	"log/slog"
	"os"
)

// New returns the root structured logger. Services receive child loggers from
// this via With; nothing else in the tree constructs its own handler.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
