package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is backed by a terminal. Anything exposing an
// Fd() method (os.File included) is probed; other writers, such as the
// buffers the scripted tests inject, are never terminals.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SupportsColor reports whether ANSI colors should be emitted to w:
// w must be a terminal, NO_COLOR must be unset, and TERM must not be "dumb".
func SupportsColor(w io.Writer) bool {
	return supportsColor(w, IsTTY(w))
}

func supportsColor(w io.Writer, isTTY bool) bool {
	// NO_COLOR convention (https://no-color.org)
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return isTTY
}
