package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide JSON logger and installs it as the slog
// default so middleware can log without threading the handle around.
func NewLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	return logger
}
