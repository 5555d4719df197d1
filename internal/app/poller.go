package app

import (
	"context"
	"sync/atomic"
	"time"

	logAdapter "github.com/bft-labs/walletpoll/internal/adapters/log"
	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

// timerFunc starts a timer and returns its channel and stop function.
type timerFunc func(d time.Duration) (<-chan time.Time, func() bool)

func realTimer(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// Poller drives the fixed-interval status loop.
type Poller struct {
	reporter   ports.Reporter
	logger     ports.Logger
	timer      timerFunc
	nudge      chan struct{}
	iterations atomic.Uint64
}

// NewPoller creates a poller that reports iterations and skips to reporter.
func NewPoller(reporter ports.Reporter, logger ports.Logger) *Poller {
	if reporter == nil {
		reporter = MultiReporter()
	}
	logger = logAdapter.OrNoop(logger)
	return &Poller{
		reporter: reporter,
		logger:   logger,
		timer:    realTimer,
		nudge:    make(chan struct{}, 1),
	}
}

// Run dispatches a status query followed by a UTXO snapshot query, waits
// cfg.Interval and repeats until ctx is done. It returns ctx.Err() on
// cancellation, also when cancelled mid-suspension. An invalid session is
// rejected with domain.ErrInvalidSessionUse before anything is dispatched.
func (p *Poller) Run(ctx context.Context, session *Session, cfg domain.PollConfig) error {
	if !session.Valid() {
		return domain.ErrInvalidSessionUse
	}
	if cfg.Interval <= 0 {
		cfg.Interval = domain.DefaultPollInterval
	}

	p.logger.Info("polling started",
		ports.String("wallet", session.Wallet()),
		ports.Duration("interval", cfg.Interval),
		ports.String("overlap", cfg.Overlap.String()),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p.reporter.OnIteration(p.iterations.Add(1))

		// Order is fixed: status first, then the UTXO snapshot.
		p.dispatch(ctx, session, domain.KindStatus, cfg.Overlap)
		p.dispatch(ctx, session, domain.KindUtxos, cfg.Overlap)

		if err := p.suspend(ctx, cfg.Interval); err != nil {
			return err
		}
	}
}

// Nudge cuts the current suspension short so the next iteration starts now.
// It never stops the loop. Extra nudges while one is pending are dropped.
func (p *Poller) Nudge() {
	select {
	case p.nudge <- struct{}{}:
	default:
	}
}

// Iterations returns the number of iterations started so far.
func (p *Poller) Iterations() uint64 {
	return p.iterations.Load()
}

func (p *Poller) dispatch(ctx context.Context, session *Session, kind domain.RequestKind, overlap domain.OverlapPolicy) {
	if overlap == domain.OverlapDrop && session.InFlight(kind) > 0 {
		p.reporter.OnSkipped(kind, "previous request in flight")
		p.logger.Debug("dispatch skipped", ports.String("kind", string(kind)))
		return
	}

	var (
		id  string
		err error
	)
	switch kind {
	case domain.KindStatus:
		id, err = session.RequestStatus(ctx)
	case domain.KindUtxos:
		id, err = session.RequestUtxoSnapshot(ctx)
	}
	if err != nil {
		// Keep the schedule; the next iteration dispatches again.
		p.logger.Warn("dispatch failed",
			ports.String("kind", string(kind)),
			ports.Err(err),
		)
		return
	}
	p.logger.Debug("dispatched",
		ports.String("kind", string(kind)),
		ports.String("request_id", id),
	)
}

func (p *Poller) suspend(ctx context.Context, d time.Duration) error {
	c, stop := p.timer(d)
	defer stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c:
		return nil
	case <-p.nudge:
		p.logger.Debug("suspension interrupted, polling now")
		return nil
	}
}
