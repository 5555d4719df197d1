//go:build !unix

package main

// notifyNudge is a no-op where SIGUSR1 does not exist.
func notifyNudge(func()) (stop func()) {
	return func() {}
}
