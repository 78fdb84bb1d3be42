package emit

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/term"

	"github.com/maksimkurb/tracegate/src/internal/errors"
)

// Separator is appended after a message when the caller asks for it.
const Separator = "\n"

// Emitter writes finished messages. Implementations must be goroutine-safe.
type Emitter interface {
	Emit(msg string, newline bool)
}

// Stream writes messages to a swappable io.Writer.
type Stream struct {
	mu          sync.Mutex
	w           io.Writer
	buf         []byte
	writeErrors atomic.Uint64
}

// NewStream creates a Stream writing to w. A nil w discards output.
func NewStream(w io.Writer) *Stream {
	if w == nil {
		w = io.Discard
	}
	return &Stream{w: w}
}

// Emit writes msg, followed by Separator when newline is set, in a single
// Write call. Write failures are counted, not returned.
func (s *Stream) Emit(msg string, newline bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf = append(s.buf[:0], msg...)
	if newline {
		s.buf = append(s.buf, Separator...)
	}
	if _, err := s.w.Write(s.buf); err != nil {
		s.writeErrors.Add(1)
	}
}

// SetDestination replaces the output writer and returns the previous one.
// It waits for an in-progress Emit to finish. A nil w discards output.
func (s *Stream) SetDestination(w io.Writer) io.Writer {
	if w == nil {
		w = io.Discard
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.w
	s.w = w
	return prev
}

// Destination returns the current output writer.
func (s *Stream) Destination() io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w
}

// WriteErrors returns the number of failed writes so far.
func (s *Stream) WriteErrors() uint64 {
	return s.writeErrors.Load()
}

type multi []Emitter

// Multi fans every message out to all emitters, in order.
func Multi(emitters ...Emitter) Emitter {
	return multi(emitters)
}

func (m multi) Emit(msg string, newline bool) {
	for _, e := range m {
		e.Emit(msg, newline)
	}
}

type discard struct{}

func (discard) Emit(string, bool) {}

// Discard drops every message.
var Discard Emitter = discard{}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// OpenDestination resolves an output setting: "" or "-" is stderr, "stdout"
// is stdout, anything else is a file opened for appending.
func OpenDestination(path string) (io.Writer, error) {
	switch path {
	case "", "-":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.NewEmitError("failed to open trace output "+path, err)
	}
	return f, nil
}
