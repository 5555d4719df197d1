package domain

// State is the process-level lifecycle state of a wallet session.
type State int

const (
	StateUninitialized State = iota
	StateCheckingExistence
	StateOpening
	StateCreating
	StateReady
	StateSynchronizing
	StatePolling
	StateStopped
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateCheckingExistence:
		return "CheckingExistence"
	case StateOpening:
		return "Opening"
	case StateCreating:
		return "Creating"
	case StateReady:
		return "Ready"
	case StateSynchronizing:
		return "Synchronizing"
	case StatePolling:
		return "Polling"
	case StateStopped:
		return "Stopped"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateStopped || s == StateFailed
}
