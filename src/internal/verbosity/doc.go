// Package verbosity implements the hierarchical verbosity registry behind the
// trace gate.
//
// Components are named with dotted strings such as "db.pool.conn", most
// significant segment first. The registry stores explicit verbosity overrides
// for some of those names and resolves the effective verbosity of any name,
// configured or not, by inheriting from its deepest configured ancestor. The
// root (the empty name) always carries the global default.
//
// # Names
//
// Every "." splits a name. Leading, trailing and repeated separators produce
// literal empty segments, so ".a", "a." and "a..b" are ordinary, distinct
// names. The empty name is the root.
//
// # Defaults
//
// A new registry starts with the global default set to DefaultVerbosity (0).
// Reset and Clear("") restore that value. Negative verbosities are legal.
//
// # Concurrency
//
// Reads (Get, Lookup, Overrides, Print) never block. Writers serialize on a
// mutex, build a copy of the affected path and publish a new immutable
// snapshot with a single atomic pointer store. Each snapshot owns its own
// resolution cache, so a reader sees either the complete state before a write
// or the complete state after it.
//
// # Example Usage
//
//	reg := verbosity.New()
//	reg.Set("db", 2)
//	reg.Set("db.pool", 5)
//
//	reg.Get("db.pool.conn") // 5
//	reg.Get("db.query")     // 2
//	reg.Get("http")         // 0, the global default
//
//	reg.Clear("db.pool")
//	reg.Get("db.pool.conn") // 2
package verbosity
