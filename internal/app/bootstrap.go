package app

import (
	"context"

	logAdapter "github.com/bft-labs/walletpoll/internal/adapters/log"
	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

// Bootstrapper decides between opening an existing wallet and creating a new one.
type Bootstrapper struct {
	engine    ports.WalletEngine
	lifecycle *Lifecycle
	reporter  ports.Reporter
	logger    ports.Logger
}

// NewBootstrapper creates a bootstrapper. A nil lifecycle gets a private one.
func NewBootstrapper(engine ports.WalletEngine, lifecycle *Lifecycle, reporter ports.Reporter, logger ports.Logger) *Bootstrapper {
	logger = logAdapter.OrNoop(logger)
	if lifecycle == nil {
		lifecycle = NewLifecycle(logger, nil)
	}
	return &Bootstrapper{
		engine:    engine,
		lifecycle: lifecycle,
		reporter:  reporter,
		logger:    logger,
	}
}

// Bootstrap opens the wallet if the engine knows it and creates it otherwise.
// It makes at most one create-or-open call and never retries. Failures are
// returned as *domain.BootstrapError carrying ErrExistenceCheckFailed,
// ErrOpenFailed or ErrCreateFailed; a nil handle, typed or not, counts as a
// failure. A second call on the same lifecycle returns domain.ErrAlreadyRunning.
func (b *Bootstrapper) Bootstrap(ctx context.Context, identity domain.WalletIdentity, endpoint domain.NodeEndpoint) (*Session, error) {
	if err := b.lifecycle.TransitionTo(domain.StateCheckingExistence, "bootstrap "+identity.Name); err != nil {
		// Another bootstrap already left StateUninitialized.
		return nil, domain.ErrAlreadyRunning
	}

	exists, err := b.engine.WalletExists(ctx, identity.Name)
	if err != nil {
		return nil, b.fail(&domain.BootstrapError{Kind: domain.ErrExistenceCheckFailed, Wallet: identity.Name, Err: err})
	}

	var (
		handle ports.SessionHandle
		kind   error
	)
	if exists {
		_ = b.lifecycle.TransitionTo(domain.StateOpening, "wallet exists")
		handle, err = b.engine.OpenWallet(ctx, endpoint, identity.Name, identity.Password)
		kind = domain.ErrOpenFailed
	} else {
		_ = b.lifecycle.TransitionTo(domain.StateCreating, "wallet not found")
		handle, err = b.engine.CreateWallet(ctx, endpoint, identity.Name, identity.Password, identity.OwnerSeed)
		kind = domain.ErrCreateFailed
	}
	if err != nil || isNilHandle(handle) {
		return nil, b.fail(&domain.BootstrapError{Kind: kind, Wallet: identity.Name, Err: err})
	}

	reason := "wallet created"
	if exists {
		reason = "wallet opened"
	}
	_ = b.lifecycle.TransitionTo(domain.StateReady, reason)

	b.logger.Info(reason,
		ports.String("wallet", identity.Name),
		ports.String("node", endpoint.String()),
	)

	return newSession(handle, identity.Name, endpoint, b.reporter, b.logger), nil
}

func (b *Bootstrapper) fail(err *domain.BootstrapError) error {
	b.logger.Error("bootstrap failed",
		ports.String("wallet", err.Wallet),
		ports.Err(err),
	)
	_ = b.lifecycle.TransitionTo(domain.StateFailed, err.Error())
	return err
}
