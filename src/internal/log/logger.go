package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

var (
	verbose     atomic.Bool
	disableLogs atomic.Bool
	forceStdErr atomic.Bool

	outMu  sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	logPrefixes = map[int]string{
		levelDebug: color.New(color.FgWhite).Sprint("[DBG]"),
		levelInfo:  color.New(color.FgCyan).Sprint("[INF]"),
		levelWarn:  color.New(color.FgYellow).Sprint("[WRN]"),
		levelError: color.New(color.FgRed).Sprint("[ERR]"),
	}
)

// SetVerbose sets the logging verbosity. If true, all log levels are displayed.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// IsVerbose returns true if verbose logging is enabled.
func IsVerbose() bool {
	return verbose.Load()
}

// DisableLogs disables all logging.
func DisableLogs() {
	disableLogs.Store(true)
}

// IsDisabled returns true if logging is disabled.
func IsDisabled() bool {
	return disableLogs.Load()
}

// SetForceStdErr sends every level to the error writer.
func SetForceStdErr(v bool) {
	forceStdErr.Store(v)
}

// SetOutput replaces the writers used for regular and error messages.
// Nil arguments keep the current writer.
func SetOutput(out, errOut io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()

	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Debugf logs a debug message if verbose is true.
func Debugf(format string, args ...interface{}) {
	if verbose.Load() {
		logMessage(levelDebug, format, args...)
	}
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	logMessage(levelInfo, format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...interface{}) {
	logMessage(levelWarn, format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	logMessage(levelError, format, args...)
}

// Fatalf logs an error message and exits the program.
func Fatalf(format string, args ...interface{}) {
	logMessage(levelError, format, args...)
	os.Exit(1)
}

// logMessage formats and writes a log message with the specified log level.
func logMessage(level int, format string, args ...interface{}) {
	if disableLogs.Load() {
		return
	}
	message := fmt.Sprintf(format, args...)
	output := logPrefixes[level] + " " + message + "\n"

	outMu.Lock()
	defer outMu.Unlock()

	if forceStdErr.Load() || level == levelError {
		_, _ = io.WriteString(stderr, output)
	} else {
		_, _ = io.WriteString(stdout, output)
	}
}
