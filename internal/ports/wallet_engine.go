package ports

import (
	"context"

	"github.com/bft-labs/walletpoll/internal/domain"
)

// WalletEngine is the capability set consumed from the wallet engine.
// Key derivation, UTXO tracking, chain sync and storage all live behind it.
type WalletEngine interface {
	// WalletExists reports whether a wallet with the given name is provisioned.
	// An error means the predicate could not be evaluated (e.g. storage unavailable).
	WalletExists(ctx context.Context, name string) (bool, error)

	// CreateWallet provisions a new wallet and returns its session handle.
	// A nil handle means failure even when the error is nil.
	CreateWallet(ctx context.Context, endpoint domain.NodeEndpoint, name, password, ownerSeed string) (SessionHandle, error)

	// OpenWallet opens an existing wallet and returns its session handle.
	// A nil handle means failure even when the error is nil.
	OpenWallet(ctx context.Context, endpoint domain.NodeEndpoint, name, password string) (SessionHandle, error)
}

// SessionHandle is the engine's handle for one open wallet bound to one node.
type SessionHandle interface {
	// Synchronize starts synchronization with the node and returns immediately.
	// Completion is not reported.
	Synchronize(ctx context.Context) error

	// RequestStatus dispatches a status query and returns immediately.
	// The engine sends exactly one Reply on the returned channel.
	RequestStatus(ctx context.Context, requestID string) (<-chan domain.Reply, error)

	// RequestUtxoSnapshot dispatches an unspent-output query and returns immediately.
	// The engine sends exactly one Reply on the returned channel.
	RequestUtxoSnapshot(ctx context.Context, requestID string) (<-chan domain.Reply, error)
}
