package trace

import (
	"io"
	"os"
	"sync"

	"github.com/maksimkurb/tracegate/src/internal/emit"
	"github.com/maksimkurb/tracegate/src/internal/verbosity"
)

var (
	defaultOnce   sync.Once
	defaultTracer *Tracer
	defaultStream *emit.Stream
)

// Default returns the process-wide tracer. It reads verbosity.Default() and
// writes to stderr.
func Default() *Tracer {
	defaultOnce.Do(func() {
		defaultStream = emit.NewStream(os.Stderr)
		defaultTracer = New(NewGate(verbosity.Default()), defaultStream)
	})
	return defaultTracer
}

// SetDestination redirects the default tracer and returns the previous
// destination.
func SetDestination(w io.Writer) io.Writer {
	Default()
	return defaultStream.SetDestination(w)
}

// Check asks the default tracer whether name at level is approved.
func Check(name string, level int) bool {
	return Default().Enabled(name, level)
}

// Printf emits through the default tracer.
func Printf(name string, level int, format string, args ...any) {
	Default().Printf(name, level, format, args...)
}

// Print emits through the default tracer.
func Print(name string, level int, args ...any) {
	Default().Print(name, level, args...)
}

// Lazy emits fn's result through the default tracer when approved.
func Lazy(name string, level int, fn func() string) {
	Default().Lazy(name, level, fn)
}
