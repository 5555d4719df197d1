package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

// ClientConfig holds the fixed startup parameters of a client.
type ClientConfig struct {
	Identity domain.WalletIdentity
	Endpoint domain.NodeEndpoint
	Poll     domain.PollConfig
}

// Client bootstraps one wallet session and polls it until its context is done.
type Client struct {
	config       ClientConfig
	lifecycle    *Lifecycle
	bootstrapper *Bootstrapper
	poller       *Poller
	logger       ports.Logger
}

// NewClient creates a client in StateUninitialized; call Run to start it.
func NewClient(cfg ClientConfig, engine ports.WalletEngine, opts ...Option) (*Client, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: wallet engine is required", domain.ErrInvalidConfig)
	}
	if cfg.Identity.Name == "" {
		return nil, fmt.Errorf("%w: wallet name is required", domain.ErrInvalidConfig)
	}
	if cfg.Endpoint.Host == "" || cfg.Endpoint.Port <= 0 {
		return nil, fmt.Errorf("%w: node endpoint is required", domain.ErrInvalidConfig)
	}
	if cfg.Poll.Interval <= 0 {
		cfg.Poll.Interval = domain.DefaultPollInterval
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var observers multiObserver
	for _, obs := range o.observers {
		if obs != nil {
			observers = append(observers, obs)
		}
	}

	reporter := MultiReporter(o.reporters...)
	lifecycle := NewLifecycle(o.logger, observers)

	return &Client{
		config:       cfg,
		lifecycle:    lifecycle,
		bootstrapper: NewBootstrapper(engine, lifecycle, reporter, o.logger),
		poller:       NewPoller(reporter, o.logger),
		logger:       o.logger,
	}, nil
}

// Run bootstraps the session, triggers synchronization and polls until ctx is done.
// Bootstrap failures are returned immediately and polling never starts.
// Cancellation is a clean stop: Run returns nil, or domain.ErrShutdownTimeout
// if in-flight replies did not drain in time.
func (c *Client) Run(ctx context.Context) error {
	if !c.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}

	session, err := c.bootstrapper.Bootstrap(ctx, c.config.Identity, c.config.Endpoint)
	if err != nil {
		return err
	}

	_ = c.lifecycle.TransitionTo(domain.StateSynchronizing, "synchronize with "+c.config.Endpoint.String())
	if err := session.Synchronize(ctx); err != nil {
		// Synchronization completion is never observed here, so a failed
		// trigger does not prevent status polling.
		c.logger.Warn("synchronize trigger failed", ports.Err(err))
	}

	_ = c.lifecycle.TransitionTo(domain.StatePolling, "polling every "+c.config.Poll.Interval.String())
	err = c.poller.Run(ctx, session, c.config.Poll)
	waitErr := session.Wait(ShutdownTimeout)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		_ = c.lifecycle.TransitionTo(domain.StateStopped, "context done")
		return waitErr
	}
	_ = c.lifecycle.TransitionTo(domain.StateFailed, fmt.Sprint(err))
	return err
}

// Nudge starts the next polling iteration immediately.
func (c *Client) Nudge() {
	c.poller.Nudge()
}

// State returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (c *Client) State() domain.State {
	return c.lifecycle.State()
}

// Iterations returns the number of polling iterations started so far.
func (c *Client) Iterations() uint64 {
	return c.poller.Iterations()
}
