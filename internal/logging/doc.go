// Package logging provides structured logging for scancam.
//
// This package wraps a global zap logger. It is silent until initialized so
// that library code can log freely without producing output in CLI commands
// or tests.
//
// # Log Levels
//
//   - Debug: Capability decisions (chosen focus mode, exposure steps)
//   - Info: Negotiation progress (screen and camera resolution, parameters)
//   - Warn: Recovered conditions (missing parameters, resolution drift, safe mode)
//   - Error: Failed negotiation (no usable preview size)
//
// # Components
//
// Components take a *zap.Logger and default to a named child of the global
// logger:
//
//	logger := logging.Named("camera")
//	logger.Warn("Resolution drift",
//	    zap.Stringer("requested", requested),
//	    zap.Stringer("actual", actual),
//	)
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Without an explicit level the SCANCAM_LOG_LEVEL environment variable is used.
// Output goes to stderr in console format so that command output on stdout
// stays clean.
package logging
