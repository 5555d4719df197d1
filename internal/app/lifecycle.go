package app

import (
	"sync"
	"time"

	logAdapter "github.com/bft-labs/walletpoll/internal/adapters/log"
	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

// ShutdownTimeout is the maximum time to wait for in-flight replies on shutdown.
const ShutdownTimeout = 30 * time.Second

// transitions lists the states reachable from each state.
var transitions = map[domain.State][]domain.State{
	domain.StateUninitialized:     {domain.StateCheckingExistence},
	domain.StateCheckingExistence: {domain.StateOpening, domain.StateCreating, domain.StateFailed},
	domain.StateOpening:           {domain.StateReady, domain.StateFailed},
	domain.StateCreating:          {domain.StateReady, domain.StateFailed},
	domain.StateReady:             {domain.StateSynchronizing, domain.StateStopped, domain.StateFailed},
	domain.StateSynchronizing:     {domain.StatePolling, domain.StateStopped, domain.StateFailed},
	domain.StatePolling:           {domain.StateStopped, domain.StateFailed},
}

// Lifecycle manages the session state machine.
type Lifecycle struct {
	mu       sync.RWMutex
	state    domain.State
	logger   ports.Logger
	observer ports.StateObserver
}

// NewLifecycle creates a new lifecycle manager in StateUninitialized.
func NewLifecycle(logger ports.Logger, observer ports.StateObserver) *Lifecycle {
	logger = logAdapter.OrNoop(logger)
	return &Lifecycle{
		state:    domain.StateUninitialized,
		logger:   logger,
		observer: observer,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() domain.State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to transition to a new state.
// Returns domain.ErrInvalidTransition if the transition is not valid.
func (l *Lifecycle) TransitionTo(newState domain.State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	if !allowed(oldState, newState) {
		l.mu.Unlock()
		return domain.ErrInvalidTransition
	}

	l.state = newState
	l.mu.Unlock()

	// Notify outside of lock
	if l.observer != nil {
		l.observer.OnStateChange(oldState, newState, reason)
	}

	l.logger.Info("state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}

// CanStart returns true if a bootstrap has not been attempted yet.
func (l *Lifecycle) CanStart() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == domain.StateUninitialized
}

func allowed(from, to domain.State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// waitWithTimeout waits for wg with a timeout.
// Returns domain.ErrShutdownTimeout if the timeout expires.
func waitWithTimeout(wg *sync.WaitGroup, timeout time.Duration, logger ports.Logger) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		logger.Warn("shutdown timeout, abandoning in-flight requests",
			ports.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}
