//go:build unix

package commands

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// notifyReload delivers SIGHUP to c.
func notifyReload(c chan<- os.Signal) {
	signal.Notify(c, unix.SIGHUP)
}
