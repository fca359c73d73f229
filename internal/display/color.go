// Package display renders window lists, progress bars, and countdowns with
// raw ANSI escape codes.
//
// It respects the NO_COLOR environment variable (https://no-color.org/) and
// disables color automatically when stdout is piped or redirected.
package display

import "os"

// ANSI escape codes for styling.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	green  = "\033[32m"
	yellow = "\033[33m"
	red    = "\033[31m"
	cyan   = "\033[36m"
)

// enabled reports whether color output is active. Set once at init time.
var enabled bool

func init() {
	enabled = shouldEnable()
}

func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return isTerminal(os.Stdout)
}

// isTerminal checks for a character device via Stat(), avoiding cgo and
// external deps.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// SetEnabled overrides the auto-detected color state. Useful for tests and
// for --json output.
func SetEnabled(b bool) {
	enabled = b
}

func wrap(code, text string) string {
	if !enabled {
		return text
	}
	return code + text + reset
}

// Bold returns text rendered in bold.
func Bold(text string) string { return wrap(bold, text) }

// Dim returns text rendered in dim/faint.
func Dim(text string) string { return wrap(dim, text) }

// Green returns text rendered in green. Used for active windows.
func Green(text string) string { return wrap(green, text) }

// Yellow returns text rendered in yellow. Used for optional windows.
func Yellow(text string) string { return wrap(yellow, text) }

// Red returns text rendered in red. Used for forbidden windows.
func Red(text string) string { return wrap(red, text) }

// Accent returns text in the accent style (bold cyan). Used for the next
// window highlight.
func Accent(text string) string {
	if !enabled {
		return text
	}
	return bold + cyan + text + reset
}
