package imgedit

import (
	"log/slog"

	"github.com/gogpu/imgedit/internal/logging"
)

// SetLogger configures the logger for imgedit and all its sub-packages.
// By default, imgedit produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by imgedit:
//   - [slog.LevelDebug]: per-command and per-render diagnostics (command
//     descriptions, history sizes, render timings)
//   - [slog.LevelInfo]: lifecycle events (document created or decoded)
//   - [slog.LevelWarn]: non-fatal issues (missing color profile, history
//     trimmed to its limit)
//   - [slog.LevelError]: structural errors that were reported and ignored
//
// Example:
//
//	// Enable info-level logging to stderr:
//	imgedit.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	imgedit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by imgedit.
// Sub-packages (color, adjust) share the same logger configuration.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
