// Package emit writes finished trace messages to an output destination.
//
// An Emitter receives a fully formatted string and a flag telling whether the
// trailing separator (a newline) must follow it. It never sees format strings
// or arguments; the caller has already decided, through the trace gate, that
// the message is wanted.
//
// Stream is the standard Emitter. Its destination can be swapped at any time;
// a swap and a write never interleave, so every message lands whole on exactly
// one destination.
//
//	s := emit.NewStream(os.Stderr)
//	s.Emit("cache miss for key 42", true)
//	s.SetDestination(logFile)
package emit
