package app

import (
	"log/slog"
	"os"

	"fleet-platform/internal/logx"
)

// NewLogger returns the JSON logger written to stdout. LOG_LEVEL=debug lowers the level.
func NewLogger() logx.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return logx.NewJSON(os.Stdout, level)
}
