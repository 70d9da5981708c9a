// Package lg is the internal debug logger for bibql's library packages.
//
// It is a thin front on the same zap/ecszap stack the CLI logs with, so
// internal tracing comes out in the same ECS JSON shape. By default it is a
// no-op; setting the BIBQL_DEBUG environment variable to anything other
// than the empty string, `0`, or `false` turns it on (to stderr, so traces
// never mix with query output on stdout).
package lg

import (
	"os"

	"go.elastic.co/ecszap"
	"go.uber.org/zap"
)

const envvar = "BIBQL_DEBUG"

var logger *zap.SugaredLogger

func init() {
	val, exists := os.LookupEnv(envvar)
	if !exists || val == "" || val == "0" || val == "false" {
		logger = zap.NewNop().Sugar()
		return
	}
	core := ecszap.NewCore(ecszap.NewDefaultEncoderConfig(), os.Stderr, zap.DebugLevel)
	logger = zap.New(core).Named("bibql").Sugar()
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	return logger.Desugar().Core().Enabled(zap.DebugLevel)
}

// Debugf logs a formatted debug message, if BIBQL_DEBUG is set.
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Debugw logs a debug message with key-value context, if BIBQL_DEBUG is
// set.
func Debugw(msg string, keysAndValues ...interface{}) {
	logger.Debugw(msg, keysAndValues...)
}
