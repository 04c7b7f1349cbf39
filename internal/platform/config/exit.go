// Package config loads command configuration from the environment and
// provides the fatal-exit helpers shared by the icondex commands.
package config

import (
	"fmt"
	"io"
	"os"
)

// ExitUsage is the exit status for invalid flags or misuse of the library
// lifecycle, as opposed to document load failures.
const ExitUsage = 2

var exit = os.Exit

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	ExitCodef(1, format, args...)
}

// ExitCodef writes a formatted error message to stderr and exits with code.
func ExitCodef(code int, format string, args ...any) {
	writeExit(os.Stderr, format, args...)
	exit(code)
}

func writeExit(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
