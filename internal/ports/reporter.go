package ports

import "github.com/bft-labs/walletpoll/internal/domain"

// Reporter observes the polling loop and receives out-of-band query results.
// Methods may be called concurrently from different goroutines and should return quickly.
type Reporter interface {
	// OnDispatched is called after a query was handed to the engine.
	OnDispatched(kind domain.RequestKind, requestID string)

	// OnSkipped is called when the overlap policy suppressed a dispatch.
	OnSkipped(kind domain.RequestKind, reason string)

	// OnReply is called once per completed query.
	OnReply(reply domain.Reply)

	// OnIteration is called at the start of every polling iteration (1-based).
	OnIteration(n uint64)
}
