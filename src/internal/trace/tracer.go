package trace

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"

	"github.com/maksimkurb/tracegate/src/internal/emit"
	"github.com/maksimkurb/tracegate/src/internal/verbosity"
)

// NoMaxLevel disables the level cap of a Tracer.
const NoMaxLevel = -1

// Tracer emits messages approved by its gate.
type Tracer struct {
	gate      *Gate
	emitter   emit.Emitter
	formatter Formatter
	maxLevel  int

	prefix    bool
	nameColor *color.Color
	lvlColor  *color.Color
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithMaxLevel rejects every event with a level above n. A negative n means
// no cap.
func WithMaxLevel(n int) Option {
	return func(t *Tracer) {
		t.maxLevel = n
	}
}

// WithPrefix prepends "[name:level] " to every message. With colorize the
// name is printed in cyan and the level dimmed.
func WithPrefix(colorize bool) Option {
	return func(t *Tracer) {
		t.prefix = true
		t.nameColor = color.New(color.FgCyan)
		t.lvlColor = color.New(color.Faint)
		if colorize {
			t.nameColor.EnableColor()
			t.lvlColor.EnableColor()
		} else {
			t.nameColor.DisableColor()
			t.lvlColor.DisableColor()
		}
	}
}

// WithFormatter replaces the printf formatter used by Printf.
func WithFormatter(f Formatter) Option {
	return func(t *Tracer) {
		if f != nil {
			t.formatter = f
		}
	}
}

// New creates a tracer. A nil emitter discards everything.
func New(gate *Gate, e emit.Emitter, opts ...Option) *Tracer {
	if e == nil {
		e = emit.Discard
	}
	t := &Tracer{
		gate:      gate,
		emitter:   e,
		formatter: PrintfFormatter{},
		maxLevel:  NoMaxLevel,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Gate returns the gate the tracer consults.
func (t *Tracer) Gate() *Gate {
	return t.gate
}

// Enabled reports whether an event for name at level would be emitted.
func (t *Tracer) Enabled(name string, level int) bool {
	if !Enabled {
		return false
	}
	if t.maxLevel >= 0 && level > t.maxLevel {
		return false
	}
	return t.gate.Check(name, level)
}

// Printf formats and emits a message followed by a newline.
func (t *Tracer) Printf(name string, level int, format string, args ...any) {
	if !t.Enabled(name, level) {
		return
	}
	t.emit(name, level, t.formatter.Format(format, args))
}

// Print emits the fmt.Sprint rendering of args followed by a newline.
func (t *Tracer) Print(name string, level int, args ...any) {
	if !t.Enabled(name, level) {
		return
	}
	t.emit(name, level, fmt.Sprint(args...))
}

// Lazy calls fn and emits its result only when the event is approved.
func (t *Tracer) Lazy(name string, level int, fn func() string) {
	if !t.Enabled(name, level) {
		return
	}
	t.emit(name, level, fn())
}

// Template expands {{tag}} placeholders from values and emits the result.
func (t *Tracer) Template(name string, level int, tmpl string, values map[string]any) {
	if !t.Enabled(name, level) {
		return
	}
	t.emit(name, level, ExpandTemplate(tmpl, values))
}

func (t *Tracer) emit(name string, level int, msg string) {
	if t.prefix {
		msg = t.prefixFor(name, level) + msg
	}
	t.emitter.Emit(msg, true)
}

func (t *Tracer) prefixFor(name string, level int) string {
	if name == "" {
		name = verbosity.GlobalLabel
	}
	return "[" + t.nameColor.Sprint(name) + ":" + t.lvlColor.Sprint(strconv.Itoa(level)) + "] "
}

// Record builds one message from several fragments. The gate is consulted
// once, in Begin. Fragments go to the emitter as they are added, so records
// written concurrently to the same emitter may interleave.
type Record struct {
	t       *Tracer
	name    string
	level   int
	started bool
}

var noRecord = &Record{}

// Begin starts a record for name at level.
func (t *Tracer) Begin(name string, level int) *Record {
	if !t.Enabled(name, level) {
		return noRecord
	}
	return &Record{t: t, name: name, level: level}
}

// Add emits the fmt.Sprint rendering of v without a separator.
func (r *Record) Add(v any) *Record {
	if r.t == nil {
		return r
	}
	var s string
	if str, ok := v.(string); ok {
		s = str
	} else {
		s = fmt.Sprint(v)
	}
	r.t.emitter.Emit(r.lead()+s, false)
	return r
}

// End emits the trailing separator.
func (r *Record) End() {
	if r.t == nil {
		return
	}
	r.t.emitter.Emit(r.lead(), true)
}

func (r *Record) lead() string {
	if r.started || !r.t.prefix {
		r.started = true
		return ""
	}
	r.started = true
	return r.t.prefixFor(r.name, r.level)
}

// Leveled is a tracer bound to one level.
type Leveled struct {
	t     *Tracer
	level int
}

// At returns a view of t that emits at level.
func (t *Tracer) At(level int) Leveled {
	return Leveled{t: t, level: level}
}

// Level returns the bound level.
func (l Leveled) Level() int {
	return l.level
}

// Enabled reports whether name would be emitted at the bound level.
func (l Leveled) Enabled(name string) bool {
	return l.t.Enabled(name, l.level)
}

// Printf is Tracer.Printf at the bound level.
func (l Leveled) Printf(name string, format string, args ...any) {
	l.t.Printf(name, l.level, format, args...)
}

// Lazy is Tracer.Lazy at the bound level.
func (l Leveled) Lazy(name string, fn func() string) {
	l.t.Lazy(name, l.level, fn)
}

// Component is a tracer bound to one component name.
type Component struct {
	t    *Tracer
	name string
}

// Component returns a view of t that emits under name.
func (t *Tracer) Component(name string) *Component {
	return &Component{t: t, name: name}
}

// Name returns the bound component name.
func (c *Component) Name() string {
	return c.name
}

// Child returns the component one segment below c.
func (c *Component) Child(segment string) *Component {
	return &Component{t: c.t, name: verbosity.JoinName(c.name, segment)}
}

// Enabled reports whether the component would emit at level.
func (c *Component) Enabled(level int) bool {
	return c.t.Enabled(c.name, level)
}

// Printf is Tracer.Printf under the bound name.
func (c *Component) Printf(level int, format string, args ...any) {
	c.t.Printf(c.name, level, format, args...)
}

// Lazy is Tracer.Lazy under the bound name.
func (c *Component) Lazy(level int, fn func() string) {
	c.t.Lazy(c.name, level, fn)
}

// Template is Tracer.Template under the bound name.
func (c *Component) Template(level int, tmpl string, values map[string]any) {
	c.t.Template(c.name, level, tmpl, values)
}

// Begin starts a record under the bound name.
func (c *Component) Begin(level int) *Record {
	return c.t.Begin(c.name, level)
}
