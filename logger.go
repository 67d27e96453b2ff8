package halo

import (
	"log/slog"

	"github.com/gogpu/halo/internal/logging"
)

// SetLogger configures the logger for halo and all its sub-packages.
// By default, halo produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by halo:
//   - [slog.LevelDebug]: validation dispatch and discard, pipeline rebuilds
//   - [slog.LevelInfo]: shader published, file loaded, device opened
//   - [slog.LevelWarn]: pipeline build failures, preference write errors
//
// Example:
//
//	halo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current logger used by halo.
func Logger() *slog.Logger {
	return logging.Logger()
}
