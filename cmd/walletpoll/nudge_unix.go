//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// notifyNudge calls nudge on every SIGUSR1 until the returned stop is called.
func notifyNudge(nudge func()) (stop func()) {
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, syscall.SIGUSR1)

	go func() {
		for {
			select {
			case <-ch:
				nudge()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
