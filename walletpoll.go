// Package walletpoll opens (or creates) a wallet through a wallet daemon and
// polls its status until the context is cancelled.
//
// Example usage:
//
//	endpoint, err := walletpoll.ParseEndpoint("172.104.249.212:8101")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c, err := walletpoll.New(walletpoll.Config{
//	    Identity: walletpoll.WalletIdentity{Name: "test", Password: "123", OwnerSeed: "000"},
//	    Endpoint: endpoint,
//	    Poll:     walletpoll.DefaultPollConfig(),
//	}, walletpoll.EngineConfig{BaseURL: "http://127.0.0.1:10000"},
//	    walletpoll.WithReporter(myReporter))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := c.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package walletpoll

import (
	"github.com/bft-labs/walletpoll/internal/adapters/engine"
	"github.com/bft-labs/walletpoll/internal/app"
	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

type (
	// Client bootstraps one wallet session and polls it.
	Client = app.Client

	// Config holds the fixed startup parameters of a Client.
	Config = app.ClientConfig

	// Option configures optional behavior of a Client.
	Option = app.Option

	// EngineConfig configures the HTTP wallet daemon adapter.
	EngineConfig = engine.Config

	WalletIdentity = domain.WalletIdentity
	NodeEndpoint   = domain.NodeEndpoint
	PollConfig     = domain.PollConfig
	OverlapPolicy  = domain.OverlapPolicy
	State          = domain.State

	// Reply is the out-of-band result of one status or UTXO query.
	Reply        = domain.Reply
	RequestKind  = domain.RequestKind
	WalletStatus = domain.WalletStatus
	Utxo         = domain.Utxo

	// BootstrapError carries the failed step (Kind) and the wallet name of a
	// bootstrap failure; retrieve it with errors.As.
	BootstrapError = domain.BootstrapError

	// WalletEngine is the capability set a Client needs from the wallet engine.
	WalletEngine  = ports.WalletEngine
	SessionHandle = ports.SessionHandle

	Reporter      = ports.Reporter
	StateObserver = ports.StateObserver
	Logger        = ports.Logger
	LogField      = ports.Field
)

const (
	OverlapAllow = domain.OverlapAllow
	OverlapDrop  = domain.OverlapDrop

	KindStatus = domain.KindStatus
	KindUtxos  = domain.KindUtxos
)

// Errors returned by a Client; check with errors.Is.
var (
	ErrExistenceCheckFailed = domain.ErrExistenceCheckFailed
	ErrOpenFailed           = domain.ErrOpenFailed
	ErrCreateFailed         = domain.ErrCreateFailed
	ErrInvalidSessionUse    = domain.ErrInvalidSessionUse
	ErrInvalidConfig        = domain.ErrInvalidConfig
	ErrAlreadyRunning       = domain.ErrAlreadyRunning
	ErrShutdownTimeout      = domain.ErrShutdownTimeout
)

// New creates a Client that reaches the wallet engine over HTTP.
// The engine logs through the logger set by WithLogger.
func New(cfg Config, ec EngineConfig, opts ...Option) (*Client, error) {
	return app.NewClient(cfg, engine.New(ec, app.LoggerFrom(opts...)), opts...)
}

// NewWithEngine creates a Client on top of any WalletEngine implementation.
func NewWithEngine(cfg Config, eng WalletEngine, opts ...Option) (*Client, error) {
	return app.NewClient(cfg, eng, opts...)
}

// ParseEndpoint parses a "host:port" node address.
func ParseEndpoint(addr string) (NodeEndpoint, error) {
	return domain.ParseEndpoint(addr)
}

// DefaultPollConfig polls every 5 seconds and allows overlapping queries.
func DefaultPollConfig() PollConfig {
	return domain.DefaultPollConfig()
}

// WithLogger sets the logger used by the client. Defaults to discarding output.
func WithLogger(l Logger) Option {
	return app.WithLogger(l)
}

// WithReporter registers a reporter for dispatches and replies.
func WithReporter(r Reporter) Option {
	return app.WithReporter(r)
}

// WithStateObserver registers an observer for lifecycle state changes.
func WithStateObserver(o StateObserver) Option {
	return app.WithStateObserver(o)
}
