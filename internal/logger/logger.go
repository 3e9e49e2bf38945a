package logger

import (
	"github.com/fatih/color"
)

// Colorized printing functions for the different log levels. They behave
// like fmt.Printf but render in a level-specific color so the install and
// uninstall flows stay readable even when a removal batch interleaves
// successes and per-item failures.

// Info logs informational messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta. Warnings cover the
// non-fatal outcomes: per-item removal failures and incomplete-removal
// verification results.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan when enabled, otherwise it is a no-op.
// It is assigned during Init based on the --debug flag and defaults to off
// so library callers never hit a nil function before the CLI runs Init.
var Debug func(format string, a ...any)

func init() {
	Init(false)
}

// Init configures debug logging. When disabled, Debug silently discards
// its arguments.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
