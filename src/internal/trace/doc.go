// Package trace decides whether a trace event is emitted and, if so, formats
// it and hands it to an emitter.
//
// # Gate
//
// Every event names a component ("db.pool.conn") and requests a verbosity
// level. Gate.Check approves the event when the requested level is less than
// or equal to the component's effective verbosity in the registry:
//
//	level <= registry.Get(name)
//
// Lower levels are more important. Raising a component's verbosity reveals
// more detail below it.
//
// # Tracer
//
// Tracer combines a gate with an emitter. Each method consults the gate first
// and formats only on approval:
//
//	tr := trace.New(trace.NewGate(reg), emit.NewStream(os.Stderr))
//
//	tr.Printf("db.pool", 3, "acquired conn %d after %v", id, wait)
//	tr.Lazy("db.pool", 5, func() string { return pool.Dump() })
//	tr.Template("http", 2, "{{method}} {{path}}", map[string]any{"method": m, "path": p})
//
//	tr.Begin("parser", 4).Add("tokens: ").Add(n).End()
//
//	debug := tr.At(7)
//	debug.Printf("cache", "evicted %s", key)
//
// Go evaluates call arguments before the call, so an argument expression is
// computed even when the gate says no; only the formatting is skipped. Put
// expensive work behind Lazy or a fmt.Stringer.
//
// # Disabling
//
// Building with -tags notrace turns Enabled into a false constant. Every
// check then returns false without touching the registry, and the compiler
// drops the guarded code. The API stays the same.
package trace
