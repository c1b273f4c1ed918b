// Package secrets collects operator-supplied credentials interactively.
//
// Values are read with terminal echo disabled, confirmed against a masked
// hint showing only the last four characters, and bound into the process
// environment on acceptance. A value is never printed or logged in full.
package secrets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"

	cserrors "github.com/mhoffman/clawstrap/internal/errors"
	"github.com/mhoffman/clawstrap/internal/redact"
)

// Entry is a confirmed operator-supplied credential bound to a fixed name.
type Entry struct {
	Name  string
	Value string
}

// Setter binds a name/value pair into an environment.
// The default is os.Setenv; tests substitute a map-backed setter.
type Setter func(name, value string) error

// Collector prompts for secret values on an injected input source.
type Collector struct {
	in         *bufio.Reader
	out        io.Writer
	readSecret func(prompt string) (string, error)
	setEnv     Setter
}

// Option configures a Collector.
type Option func(*Collector)

// WithEnvSetter overrides how confirmed values are bound into the environment.
func WithEnvSetter(set Setter) Option {
	return func(c *Collector) {
		if set != nil {
			c.setEnv = set
		}
	}
}

// WithSecretReader overrides the no-echo input function.
func WithSecretReader(read func(prompt string) (string, error)) Option {
	return func(c *Collector) {
		if read != nil {
			c.readSecret = read
		}
	}
}

// NewCollectorWithIO creates a Collector with custom reader and writer.
// By default secret input is read as plain lines; pass WithSecretReader
// (e.g. NoEchoReader) to disable echo on a real terminal. Wrapping an
// existing *bufio.Reader reuses it, so a caller interleaving its own
// prompts on the same source stays in sync with the Collector.
func NewCollectorWithIO(r io.Reader, w io.Writer, opts ...Option) *Collector {
	c := &Collector{
		in:     bufio.NewReader(r),
		out:    w,
		setEnv: os.Setenv,
	}
	c.readSecret = func(prompt string) (string, error) {
		fmt.Fprint(c.out, prompt)
		return c.readLine(false)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect prompts for a named secret until a non-empty value is entered and
// explicitly confirmed. Empty input re-prompts with a warning. Any
// confirmation answer other than "y" or "Y" discards the value and restarts
// the prompt. On confirmation the value is bound into the environment under
// name and returned.
//
// The loop has no timeout; it ends only on confirmed input or when the input
// stream closes, which surfaces as an error rather than being swallowed.
func (c *Collector) Collect(name, promptText string) (Entry, error) {
	for {
		value, err := c.readSecret(fmt.Sprintf("%s: ", promptText))
		if err != nil {
			return Entry{}, errors.Wrapf(err, "reading %s", name)
		}

		if value == "" {
			fmt.Fprintln(c.out, "  Input cannot be empty, please try again.")
			continue
		}

		fmt.Fprintf(c.out, "  You entered: %s\n", redact.MaskValue(value))
		fmt.Fprint(c.out, "  Correct? [y/N]: ")

		answer, err := c.readLine(true)
		if err != nil {
			return Entry{}, errors.Wrapf(err, "confirming %s", name)
		}
		if !strings.EqualFold(answer, "y") {
			fmt.Fprintln(c.out, "  Discarded, please re-enter.")
			continue
		}

		if err := c.setEnv(name, value); err != nil {
			return Entry{}, errors.Wrapf(err, "exporting %s", name)
		}
		return Entry{Name: name, Value: value}, nil
	}
}

// NoEchoReader returns a secret reader that reads from the process terminal
// with echo disabled. When stdin is not a terminal (piped input) it falls
// back to plain line reads from in, so scripted runs still work.
func NoEchoReader(in io.Reader, out io.Writer) func(prompt string) (string, error) {
	br := bufio.NewReader(in)
	return func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)

		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			raw, err := term.ReadPassword(fd)
			// ReadPassword suppresses the operator's newline
			fmt.Fprintln(out)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return "", cserrors.ErrInputClosed
				}
				return "", errors.Wrap(err, "reading secret input")
			}
			return string(raw), nil
		}

		line, err := br.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" {
				return "", cserrors.ErrInputClosed
			}
			if !errors.Is(err, io.EOF) {
				return "", errors.Wrap(err, "reading secret input")
			}
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

// readLine reads one line from the input source. Only the trailing newline
// (and carriage return) is stripped; interior characters are kept verbatim.
// When trim is true the result is additionally whitespace-trimmed, which is
// appropriate for yes/no answers but not for secret values.
func (c *Collector) readLine(trim bool) (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return "", cserrors.ErrInputClosed
		}
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "reading input")
		}
	}

	line = strings.TrimRight(line, "\r\n")
	if trim {
		line = strings.TrimSpace(line)
	}
	return line, nil
}

// Store accumulates confirmed entries in collection order.
type Store struct {
	entries []Entry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a confirmed entry.
func (s *Store) Add(e Entry) {
	s.entries = append(s.entries, e)
}

// Entries returns the confirmed entries in the order they were collected.
func (s *Store) Entries() []Entry {
	return s.entries
}

// Len returns the number of confirmed entries.
func (s *Store) Len() int {
	return len(s.entries)
}
