// Package logger provides verbose logging for repodrop.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr so users can follow intake and upload progress.
// Errors are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Logger prefixes every message with a component name.
// The zero value logs without a prefix.
type Logger struct {
	component string
}

// For returns a logger scoped to a component, e.g. "intake" or "upload".
func For(component string) Logger {
	return Logger{component: component}
}

// Debug prints a message if verbose mode is enabled.
func (l Logger) Debug(format string, args ...any) {
	l.write(true, "DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func (l Logger) Info(format string, args ...any) {
	l.write(true, "INFO", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func (l Logger) Warn(format string, args ...any) {
	l.write(true, "WARN", format, args...)
}

// Error prints a message regardless of verbose mode.
func (l Logger) Error(format string, args ...any) {
	l.write(false, "ERROR", format, args...)
}

func (l Logger) write(gated bool, level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	prefix := "[" + level + "] "
	if l.component != "" {
		prefix += l.component + ": "
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
