// Package logging provides structured logging for the bridge host.
//
// This package wraps Go's log/slog to write JSON-formatted logs with
// persistent context attributes. Every component of the host (manager,
// dispatcher, coordinator, simulator) logs through a child of one root
// [Logger], so a single debug.log can be filtered by phase or bridge.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (phase, bridge ID, arbitrary attributes)
//   - Size-based log rotation with optional gzip compression
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Child loggers
// created via With* methods share the underlying writer.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/state", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	mgrLogger := logger.WithPhase("manager")
//	mgrLogger.WithBridge(b.ID()).Info("bridge connected")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"bridge connected","phase":"manager","bridge_id":"6f0c..."}
//
// # Log Rotation
//
// [NewRotatingLogger] writes through a [RotatingWriter] which renames
// debug.log to debug.log.1 once it grows past the configured size, shifting
// older backups and optionally gzip-compressing them.
package logging
