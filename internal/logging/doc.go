// Package logging provides structured logging for cravat runs.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation support for debugging and post-hoc analysis. Every
// invocation appends to debug.log under the work directory, tagged with a
// unique run ID, so a failing run can be reconstructed after the fact.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (run ID, session name, interpreter)
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The [Logger] type
// uses Go's slog internally which is designed for concurrent access. Child
// loggers created via With* methods share the underlying writer safely.
//
// # Basic Usage
//
// Create a logger for a work directory:
//
//	logger, err := logging.NewLogger(".cravat", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	// Log messages at various levels
//	logger.Debug("detailed info", "key", "value")
//	logger.Info("session completed", "duration_ms", 150)
//	logger.Warn("potential issue", "threshold", 100)
//	logger.Error("session failed", "error", err.Error())
//
// # Context Propagation
//
// Create child loggers with persistent context attributes:
//
//	// Add run context
//	runLogger := logger.WithRun("run-abc123")
//
//	// Add session context
//	sessionLogger := runLogger.WithSession("tests")
//
//	// Add interpreter context
//	interpLogger := sessionLogger.WithInterpreter("3.11")
//
//	// All logs from interpLogger will include run_id, session, and interpreter
//	interpLogger.Info("command finished", "program", "pytest")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"command finished","run_id":"run-abc123","session":"tests","interpreter":"3.11","program":"pytest"}
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output:
//
//	func TestSomething(t *testing.T) {
//	    logger := logging.NopLogger()
//	    // Use logger in tests without creating files
//	}
//
// # Log Levels
//
// The package defines four log levels:
//
//   - [LevelDebug]: Detailed information for debugging
//   - [LevelInfo]: General operational information (default)
//   - [LevelWarn]: Warning conditions that may need attention
//   - [LevelError]: Error conditions that affect functionality
//
// Use [ValidLevels] to get the list of valid level strings, and [ParseLevel]
// to normalize user-provided level strings.
//
// # Configuration
//
// The logging system is typically configured via cravat's config file:
//
//	logging:
//	  enabled: true
//	  level: info
//
// See the cravat README for complete configuration documentation.
package logging
