// Package logging wires the process-wide slog logger. Startup happens in two
// stages: Setup installs a plain JSON handler before the database is up, and
// main later swaps in a MultiHandler that also feeds the system_logs sink.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a JSON handler on stdout as the default logger. The level
// comes from LOG_LEVEL (debug, info, warn, error); anything else means info.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	slog.SetDefault(slog.New(handler))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
