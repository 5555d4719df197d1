package log

import "github.com/bft-labs/walletpoll/internal/ports"

// NoopLogger drops every message. It stands in wherever no logger was configured.
type NoopLogger struct{}

// NewNoopLogger returns a logger that writes nothing.
func NewNoopLogger() ports.Logger {
	return NoopLogger{}
}

// OrNoop returns l, or a NoopLogger when l is nil.
func OrNoop(l ports.Logger) ports.Logger {
	if l == nil {
		return NoopLogger{}
	}
	return l
}

func (NoopLogger) Debug(string, ...ports.Field) {}
func (NoopLogger) Info(string, ...ports.Field)  {}
func (NoopLogger) Warn(string, ...ports.Field)  {}
func (NoopLogger) Error(string, ...ports.Field) {}
