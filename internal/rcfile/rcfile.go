// Package rcfile appends shell export statements for collected secrets to a
// shell startup file.
//
// Blocks are append-only: re-running the installer adds another block rather
// than deduplicating earlier ones. Values are single-quoted so arbitrary
// characters round-trip when the file is sourced.
package rcfile

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/mhoffman/clawstrap/internal/secrets"
)

// Target is a resolved shell startup file chosen to receive export statements.
type Target struct {
	// Path is the startup file that will be appended to.
	Path string

	// ExistedBefore reports whether the file existed when it was chosen.
	ExistedBefore bool
}

// Writer appends export blocks to shell startup files.
type Writer struct {
	now func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock overrides the time source used in the generated header comment.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		if now != nil {
			w.now = now
		}
	}
}

// NewWriter creates a Writer with the given options.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Suggest scans candidates in order and returns a Target for the first file
// that exists. If none exists, the first candidate is returned with
// ExistedBefore false so the caller can warn that it will be created.
func Suggest(candidates []string) (Target, error) {
	if len(candidates) == 0 {
		return Target{}, errors.New("no startup file candidates")
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return Target{Path: path, ExistedBefore: true}, nil
		}
	}
	return Target{Path: candidates[0], ExistedBefore: false}, nil
}

// Resolve builds a Target for an operator-chosen path.
func Resolve(path string) Target {
	info, err := os.Stat(path)
	return Target{
		Path:          path,
		ExistedBefore: err == nil && !info.IsDir(),
	}
}

// AppendExports appends a commented export block to the target file,
// creating it if needed. The block starts with a generation comment carrying
// the current date/time, followed by one export line per entry in collection
// order. The file is never truncated or rewritten.
func (w *Writer) AppendExports(target Target, entries []secrets.Entry) error {
	if len(entries) == 0 {
		return errors.New("no secrets to persist")
	}

	var b strings.Builder
	b.WriteString("\n# Added by clawstrap on ")
	b.WriteString(w.now().Format("2006-01-02 15:04:05"))
	b.WriteString("\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "export %s=%s\n", e.Name, Quote(e.Value))
	}

	f, err := os.OpenFile(target.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrapf(err, "opening %s", target.Path)
	}

	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return errors.Wrapf(err, "appending to %s", target.Path)
	}

	return errors.Wrapf(f.Close(), "closing %s", target.Path)
}

// Quote wraps a value in single quotes for safe use in a shell export
// statement. Embedded single quotes are rendered as '\'' so that spaces,
// dollar signs, backticks and quotes all survive a later source of the file.
func Quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
