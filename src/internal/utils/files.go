package utils

import (
	"io"
	"os"

	"github.com/maksimkurb/tracegate/src/internal/log"
)

// CloseOrWarn closes c and logs a warning on failure. The process standard
// streams are never closed.
func CloseOrWarn(c io.Closer, what string) {
	if c == nil || IsStdStream(c) {
		return
	}
	if err := c.Close(); err != nil {
		log.Warnf("Failed to close %s: %v", what, err)
	}
}

// IsStdStream reports whether v is os.Stdout or os.Stderr.
func IsStdStream(v any) bool {
	f, ok := v.(*os.File)
	return ok && (f == os.Stdout || f == os.Stderr)
}
