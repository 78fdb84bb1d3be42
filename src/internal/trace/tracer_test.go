//go:build !notrace

package trace

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/maksimkurb/tracegate/src/internal/emit"
	"github.com/maksimkurb/tracegate/src/internal/verbosity"
)

func newTestTracer(opts ...Option) (*Tracer, *verbosity.Registry, *bytes.Buffer) {
	reg := verbosity.New()
	buf := &bytes.Buffer{}
	return New(NewGate(reg), emit.NewStream(buf), opts...), reg, buf
}

type countingStringer struct {
	calls int
}

func (s *countingStringer) String() string {
	s.calls++
	return "expensive"
}

func TestTracer_Printf(t *testing.T) {
	tr, reg, buf := newTestTracer()
	reg.Set("db", 3)

	tr.Printf("db.pool", 3, "conn %d", 7)
	tr.Printf("db.pool", 4, "hidden %d", 8)

	if want := "conn 7\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTracer_SkipsFormattingWhenRejected(t *testing.T) {
	tr, _, buf := newTestTracer()
	s := &countingStringer{}

	tr.Printf("db", 1, "value %s", s)
	tr.Print("db", 1, s)

	if s.calls != 0 {
		t.Errorf("String() called %d times, want 0", s.calls)
	}
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}

	tr.Printf("db", 0, "value %s", s)
	if s.calls != 1 {
		t.Errorf("String() called %d times, want 1", s.calls)
	}
}

func TestTracer_Print(t *testing.T) {
	tr, _, buf := newTestTracer()

	tr.Print("x", 0, "a", 1, "b")

	if want := fmt.Sprint("a", 1, "b") + "\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTracer_Lazy(t *testing.T) {
	tr, reg, buf := newTestTracer()
	reg.Set("cache", 2)

	called := 0
	fn := func() string {
		called++
		return "dump"
	}

	tr.Lazy("cache", 5, fn)
	if called != 0 {
		t.Fatalf("producer called %d times for a rejected event", called)
	}

	tr.Lazy("cache", 2, fn)
	if called != 1 {
		t.Errorf("producer called %d times, want 1", called)
	}
	if want := "dump\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTracer_Template(t *testing.T) {
	tr, _, buf := newTestTracer()

	tr.Template("http", 0, "{{method}} {{ path }} {{missing}}", map[string]any{
		"method": "GET",
		"path":   "/x",
	})

	if want := "GET /x {{missing}}\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		name   string
		tmpl   string
		values map[string]any
		want   string
	}{
		{"no tags", "plain", nil, "plain"},
		{"string value", "{{a}}", map[string]any{"a": "x"}, "x"},
		{"int value", "n={{n}}", map[string]any{"n": 42}, "n=42"},
		{"unknown kept", "{{a}}-{{b}}", map[string]any{"a": 1}, "1-{{b}}"},
		{"spaces trimmed", "{{ a }}", map[string]any{"a": "y"}, "y"},
		{"unterminated", "{{a", map[string]any{"a": 1}, "{{a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandTemplate(tt.tmpl, tt.values); got != tt.want {
				t.Errorf("ExpandTemplate(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestTracer_Record(t *testing.T) {
	tr, reg, buf := newTestTracer()
	reg.Set("parser", 4)

	tr.Begin("parser", 4).Add("tokens: ").Add(12).End()
	tr.Begin("parser", 5).Add("hidden").End()

	if want := "tokens: 12\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTracer_RecordDecisionTakenOnce(t *testing.T) {
	tr, reg, buf := newTestTracer()
	reg.Set("p", 3)

	rec := tr.Begin("p", 3)
	reg.Set("p", 0)
	rec.Add("still").End()

	if want := "still\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTracer_MaxLevel(t *testing.T) {
	tr, reg, buf := newTestTracer(WithMaxLevel(2))
	reg.Set("", 10)

	tests := []struct {
		level int
		want  bool
	}{
		{1, true},
		{2, true},
		{3, false},
		{10, false},
	}

	for _, tt := range tests {
		if got := tr.Enabled("x", tt.level); got != tt.want {
			t.Errorf("Enabled(x, %d) = %v, want %v", tt.level, got, tt.want)
		}
	}

	tr.Printf("x", 3, "capped")
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestTracer_NoMaxLevel(t *testing.T) {
	tr, reg, _ := newTestTracer(WithMaxLevel(NoMaxLevel))
	reg.Set("", 1000)

	if !tr.Enabled("x", 1000) {
		t.Error("Enabled(x, 1000) = false without a level cap")
	}
}

func TestTracer_Prefix(t *testing.T) {
	tr, reg, buf := newTestTracer(WithPrefix(false))
	reg.Set("", 5)

	tr.Printf("db.pool", 3, "hello")
	tr.Printf("", 1, "root")
	tr.Begin("p", 2).Add("a").Add("b").End()

	want := "[db.pool:3] hello\n[*:1] root\n[p:2] ab\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTracer_ColorPrefix(t *testing.T) {
	tr, _, buf := newTestTracer(WithPrefix(true))

	tr.Printf("db", 0, "hello")

	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("output = %q, want ANSI escapes", out)
	}
	if !strings.HasSuffix(out, "] hello\n") {
		t.Errorf("output = %q, want suffix %q", out, "] hello\n")
	}
}

type upperFormatter struct{}

func (upperFormatter) Format(format string, args []any) string {
	return strings.ToUpper(fmt.Sprintf(format, args...))
}

func TestTracer_WithFormatter(t *testing.T) {
	tr, _, buf := newTestTracer(WithFormatter(upperFormatter{}))

	tr.Printf("x", 0, "hi %s", "there")

	if want := "HI THERE\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTracer_At(t *testing.T) {
	tr, reg, buf := newTestTracer()
	reg.Set("cache", 7)

	debug := tr.At(7)
	noisy := tr.At(8)

	if debug.Level() != 7 {
		t.Errorf("Level() = %d, want 7", debug.Level())
	}
	if !debug.Enabled("cache") || noisy.Enabled("cache") {
		t.Error("Leveled.Enabled does not follow the bound level")
	}

	debug.Printf("cache", "evicted %s", "k1")
	noisy.Printf("cache", "evicted %s", "k2")
	debug.Lazy("cache", func() string { return "lazy" })

	if want := "evicted k1\nlazy\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTracer_Component(t *testing.T) {
	tr, reg, buf := newTestTracer()
	reg.Set("db", 2)
	reg.Set("db.pool", 4)

	db := tr.Component("db")
	pool := db.Child("pool")
	conn := pool.Child("conn")

	if pool.Name() != "db.pool" || conn.Name() != "db.pool.conn" {
		t.Fatalf("child names = %q, %q", pool.Name(), conn.Name())
	}
	if root := tr.Component("").Child("top"); root.Name() != "top" {
		t.Errorf("root child name = %q, want %q", root.Name(), "top")
	}

	if db.Enabled(3) {
		t.Error("db.Enabled(3) = true, want false")
	}
	if !conn.Enabled(4) {
		t.Error("conn.Enabled(4) = false, want true")
	}

	db.Printf(3, "hidden")
	conn.Printf(4, "conn %d", 1)
	conn.Template(4, "{{n}} open", map[string]any{"n": 2})
	conn.Begin(1).Add("rec").End()

	if want := "conn 1\n2 open\nrec\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTracer_NilEmitterDiscards(t *testing.T) {
	tr := New(NewGate(verbosity.New()), nil)
	tr.Printf("x", 0, "nothing")
	tr.Begin("x", 0).Add("y").End()
}

func TestTracer_ConcurrentMessagesStayWhole(t *testing.T) {
	tr, _, buf := newTestTracer()

	const workers, perWorker = 8, 200
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				tr.Printf("x", 0, "worker-%d-msg-%d", w, i)
			}
		}(w)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != workers*perWorker {
		t.Fatalf("got %d lines, want %d", len(lines), workers*perWorker)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "worker-") || strings.Count(line, "-msg-") != 1 {
			t.Fatalf("torn line %q", line)
		}
	}
}

func TestDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := SetDestination(&buf)
	defer SetDestination(prev)

	if Default() != Default() {
		t.Fatal("Default() returned different tracers")
	}

	verbosity.Default().Set("trace.defaulttest", 2)
	defer verbosity.Default().Clear("trace.defaulttest")

	if !Check("trace.defaulttest", 2) || Check("trace.defaulttest", 3) {
		t.Error("Check does not follow the default registry")
	}

	Printf("trace.defaulttest", 2, "p %d", 1)
	Print("trace.defaulttest", 2, "q")
	Lazy("trace.defaulttest", 2, func() string { return "r" })
	Printf("trace.defaulttest", 3, "hidden")

	if want := "p 1\nq\nr\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
