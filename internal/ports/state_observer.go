package ports

import "github.com/bft-labs/walletpoll/internal/domain"

// StateObserver is called when the lifecycle state changes.
type StateObserver interface {
	OnStateChange(previous, current domain.State, reason string)
}
