//go:build notrace

package trace

// Enabled reports whether tracing is compiled in.
const Enabled = false
