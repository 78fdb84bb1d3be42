//go:build !notrace

package trace

import (
	"testing"

	"github.com/maksimkurb/tracegate/src/internal/verbosity"
)

type countingResolver struct {
	v     int
	calls int
}

func (r *countingResolver) Get(string) int {
	r.calls++
	return r.v
}

func TestGate_Check(t *testing.T) {
	reg := verbosity.New()
	reg.Set("a", 5)
	reg.Set("b", -1)
	gate := NewGate(reg)

	tests := []struct {
		name  string
		comp  string
		level int
		want  bool
	}{
		{"below threshold", "a", 4, true},
		{"at threshold", "a", 5, true},
		{"above threshold", "a", 6, false},
		{"inherited", "a.x.y", 5, true},
		{"inherited above", "a.x.y", 6, false},
		{"default level zero", "other", 0, true},
		{"default level one", "other", 1, false},
		{"negative verbosity rejects zero", "b", 0, false},
		{"negative verbosity accepts negative", "b", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.Check(tt.comp, tt.level); got != tt.want {
				t.Errorf("Check(%q, %d) = %v, want %v", tt.comp, tt.level, got, tt.want)
			}
		})
	}
}

func TestGate_FollowsRegistryChanges(t *testing.T) {
	reg := verbosity.New()
	gate := NewGate(reg)

	if gate.Check("db", 3) {
		t.Fatal("Check(db, 3) = true before any override")
	}

	reg.Set("db", 3)
	if !gate.Check("db.pool", 3) {
		t.Error("Check(db.pool, 3) = false after Set(db, 3)")
	}

	reg.Clear("db")
	if gate.Check("db.pool", 3) {
		t.Error("Check(db.pool, 3) = true after Clear(db)")
	}
}

func TestGate_ConsultsResolver(t *testing.T) {
	r := &countingResolver{v: 2}
	gate := NewGate(r)

	gate.Check("x", 1)
	gate.Check("y", 3)

	if r.calls != 2 {
		t.Errorf("resolver calls = %d, want 2", r.calls)
	}
}
