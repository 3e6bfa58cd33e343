// Package log wraps the underlying logging library behind replaceable
// function vars, so tests can overload individual levels.
package log

import (
	"strings"

	"github.com/tacusci/logging/v2"
)

var Debug = func(format string, a ...interface{}) {
	logging.Debug(format, a...) //nolint
}

var Info = func(format string, a ...interface{}) {
	logging.Info(format, a...) //nolint
}

var Warn = func(format string, a ...interface{}) {
	logging.Warn(format, a...) //nolint
}

var Error = func(format string, a ...interface{}) {
	logging.Error(format, a...) //nolint
}

var Fatal = func(format string, a ...interface{}) {
	logging.Fatal(format, a...) //nolint
}

// SetLevel sets the current logging level from a case-insensitive name.
// Unrecognised names fall back to warn.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "info":
		logging.CurrentLoggingLevel = logging.InfoLevel
	case "debug":
		logging.CurrentLoggingLevel = logging.DebugLevel
	default:
		logging.CurrentLoggingLevel = logging.WarnLevel
	}
}
