package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the walletpoll domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrExistenceCheckFailed is returned when the engine cannot tell whether a wallet exists.
	ErrExistenceCheckFailed = errors.New("walletpoll: wallet existence check failed")

	// ErrOpenFailed is returned when an existing wallet could not be opened.
	ErrOpenFailed = errors.New("walletpoll: wallet open failed")

	// ErrCreateFailed is returned when a new wallet could not be provisioned.
	ErrCreateFailed = errors.New("walletpoll: wallet create failed")

	// ErrInvalidSessionUse is returned when a session operation is invoked without
	// a valid handle from a successful bootstrap. Nothing is dispatched.
	ErrInvalidSessionUse = errors.New("walletpoll: invalid session use")

	// ErrInvalidEndpoint is returned when a node address is not a valid "host:port".
	ErrInvalidEndpoint = errors.New("walletpoll: invalid node endpoint")

	// ErrAlreadyRunning is returned when Run is called on a client that was already started.
	ErrAlreadyRunning = errors.New("walletpoll: already running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("walletpoll: shutdown timeout")

	// ErrInvalidTransition is returned when a lifecycle transition is not allowed.
	ErrInvalidTransition = errors.New("walletpoll: invalid state transition")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("walletpoll: invalid configuration")
)

// BootstrapError reports a failed bootstrap. Kind is one of ErrExistenceCheckFailed,
// ErrOpenFailed or ErrCreateFailed; Err is the engine's cause and may be nil when the
// engine returned no handle without saying why.
type BootstrapError struct {
	Kind   error
	Wallet string
	Err    error
}

func (e *BootstrapError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: wallet %q", e.Kind, e.Wallet)
	}
	return fmt.Sprintf("%v: wallet %q: %v", e.Kind, e.Wallet, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *BootstrapError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
