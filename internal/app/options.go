package app

import (
	logAdapter "github.com/bft-labs/walletpoll/internal/adapters/log"
	"github.com/bft-labs/walletpoll/internal/ports"
)

// Option configures optional behavior of a Client.
type Option func(*options)

// options holds the optional configuration for a Client instance.
type options struct {
	logger    ports.Logger
	reporters []ports.Reporter
	observers []ports.StateObserver
}

// defaultOptions returns options with a no-op logger and no reporters.
func defaultOptions() options {
	return options{
		logger: logAdapter.NewNoopLogger(),
	}
}

// LoggerFrom returns the logger opts configure, or a no-op logger if none does.
func LoggerFrom(opts ...Option) ports.Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o.logger
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger ports.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithReporter registers a reporter for dispatch events and out-of-band replies.
// Reporters are called in registration order.
func WithReporter(r ports.Reporter) Option {
	return func(o *options) {
		o.reporters = append(o.reporters, r)
	}
}

// WithStateObserver registers an observer for lifecycle state changes.
func WithStateObserver(obs ports.StateObserver) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs)
	}
}
