// Package errors formats user-facing failures and gives the command entry
// point a single fatal exit path. Everything here writes to stderr; stdout
// stays clean for command output and the dashboard.
package errors

import (
	"fmt"
	"os"

	"github.com/mverma/stride/internal/logger"
)

// Format prefixes err for terminal display. A nil error formats to "".
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf is Format for sprintf-style messages.
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal records err in the log file, prints it to stderr, and exits
// non-zero. Nil is a no-op so main can hand it the final command error
// unconditionally.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}

// Fatalf is Fatal for sprintf-style messages. Unlike Fatal it always exits.
func Fatalf(format string, args ...interface{}) {
	logger.Error("command failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
