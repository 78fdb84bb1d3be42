package emit

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	domainerrors "github.com/maksimkurb/tracegate/src/internal/errors"
)

func TestStream_Emit(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream(&buf)

	s.Emit("one", true)
	s.Emit("two ", false)
	s.Emit("three", true)

	if want := "one\ntwo three\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestStream_NilDestinationDiscards(t *testing.T) {
	s := NewStream(nil)
	s.Emit("dropped", true)

	if got := s.WriteErrors(); got != 0 {
		t.Errorf("WriteErrors() = %d, want 0", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestStream_CountsWriteErrors(t *testing.T) {
	s := NewStream(failingWriter{})
	s.Emit("a", true)
	s.Emit("b", true)

	if got := s.WriteErrors(); got != 2 {
		t.Errorf("WriteErrors() = %d, want 2", got)
	}
}

func TestStream_SetDestination(t *testing.T) {
	var first, second bytes.Buffer
	s := NewStream(&first)

	s.Emit("before", true)
	prev := s.SetDestination(&second)
	s.Emit("after", true)

	if prev != &first {
		t.Errorf("SetDestination() returned %v, want first buffer", prev)
	}
	if s.Destination() != &second {
		t.Errorf("Destination() is not the second buffer")
	}
	if first.String() != "before\n" {
		t.Errorf("first = %q, want %q", first.String(), "before\n")
	}
	if second.String() != "after\n" {
		t.Errorf("second = %q, want %q", second.String(), "after\n")
	}
}

// lockedBuffer records every Write call separately.
type lockedBuffer struct {
	mu     sync.Mutex
	writes []string
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes = append(b.writes, string(p))
	return len(p), nil
}

func TestStream_ConcurrentEmitAndSwapNeverTears(t *testing.T) {
	bufs := []*lockedBuffer{{}, {}}
	s := NewStream(bufs[0])
	msg := strings.Repeat("x", 256)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s.Emit(msg, true)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 200; j++ {
			s.SetDestination(bufs[j%2])
		}
	}()
	wg.Wait()

	total := 0
	for _, b := range bufs {
		for _, w := range b.writes {
			if w != msg+"\n" {
				t.Fatalf("torn write: %q", w)
			}
		}
		total += len(b.writes)
	}
	if total != 8*200 {
		t.Errorf("total writes = %d, want %d", total, 8*200)
	}
}

func TestMulti(t *testing.T) {
	var a, b bytes.Buffer
	m := Multi(NewStream(&a), Discard, NewStream(&b))

	m.Emit("hello", true)

	if a.String() != "hello\n" || b.String() != "hello\n" {
		t.Errorf("Multi outputs = %q, %q", a.String(), b.String())
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal(buffer) = true, want false")
	}
}

func TestOpenDestination(t *testing.T) {
	if w, err := OpenDestination("-"); err != nil || w != os.Stderr {
		t.Errorf("OpenDestination(-) = %v, %v; want stderr", w, err)
	}
	if w, err := OpenDestination("stdout"); err != nil || w != os.Stdout {
		t.Errorf("OpenDestination(stdout) = %v, %v; want stdout", w, err)
	}

	path := filepath.Join(t.TempDir(), "trace.log")
	w, err := OpenDestination(path)
	if err != nil {
		t.Fatalf("OpenDestination(file) error: %v", err)
	}
	NewStream(w).Emit("to file", true)
	w.(*os.File).Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "to file\n" {
		t.Errorf("file content = %q, want %q", string(data), "to file\n")
	}

	_, err = OpenDestination(filepath.Join(t.TempDir(), "missing", "dir", "trace.log"))
	if !errors.Is(err, domainerrors.New(domainerrors.ErrCodeEmit, "")) {
		t.Errorf("OpenDestination(bad path) error = %v, want EMIT_ERROR", err)
	}
}
