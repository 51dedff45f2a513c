// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for the CLI (console encoding, colored levels)
// and for the journal API (JSON encoding).
//
// # Context Awareness
//
// Merge runs attach their run ID with WithRun so that every line written during one run can be
// correlated with the journal entry. HTTP requests carry a RayID (request ID); WithRayID
// extracts it from a Fiber context.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: console (default for the CLI) or json
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Merge started")
//
//	l := logger.WithRun(log, runID)
//	l.Warn("Failed to remove source folder", zap.Error(err))
package logger
