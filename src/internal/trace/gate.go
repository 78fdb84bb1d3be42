package trace

// Resolver returns the effective verbosity of a component name.
// *verbosity.Registry implements it.
type Resolver interface {
	Get(name string) int
}

// Gate makes the print-or-not decision for trace events.
type Gate struct {
	r Resolver
}

// NewGate creates a gate reading thresholds from r.
func NewGate(r Resolver) *Gate {
	return &Gate{r: r}
}

// Check reports whether an event for name at the requested level should be
// emitted: level must not exceed the effective verbosity of name.
func (g *Gate) Check(name string, level int) bool {
	if !Enabled {
		return false
	}
	return level <= g.r.Get(name)
}
