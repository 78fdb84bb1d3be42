//go:build !unix

package commands

import "os"

// notifyReload is a no-op where SIGHUP does not exist; reloads then rely on
// the reload interval.
func notifyReload(chan<- os.Signal) {}
