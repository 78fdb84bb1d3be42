// Package log provides simple leveled logging for the tracegate binary.
//
// This is the operational log of the tool itself (startup, reloads, API
// requests, failures). It is separate from the trace gate: trace output of
// instrumented components goes through the trace and emit packages.
//
// # Log Levels
//
//   - DEBUG: Detailed diagnostic information (only shown in verbose mode)
//   - INFO: General informational messages
//   - WARN: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures and exceptions
//
// # Features
//
//   - Colored level prefixes (fatih/color, disabled automatically when the
//     output is not a terminal)
//   - Configurable verbosity (debug logging on/off)
//   - Flexible output (stdout vs stderr, or custom writers)
//   - Printf-style formatting
//   - Fatal logging with immediate exit
//
// # Example Usage
//
//	log.Infof("Loaded %d component overrides from %s", n, path)
//	log.Warnf("Config reload skipped: %v", err)
//
//	log.SetVerbose(true)
//	log.Debugf("Registry generation is now %d", gen)
//
// All functions are safe for concurrent use.
package log
