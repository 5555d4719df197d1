package domain

import (
	"fmt"
	"time"
)

// DefaultPollInterval is the spacing between polling iterations.
const DefaultPollInterval = 5000 * time.Millisecond

// OverlapPolicy decides what happens when a query of some kind is still in flight
// at the moment the next iteration wants to dispatch the same kind.
type OverlapPolicy int

const (
	// OverlapAllow dispatches on schedule regardless of in-flight requests.
	OverlapAllow OverlapPolicy = iota

	// OverlapDrop skips a kind whose previous request has not completed yet.
	OverlapDrop
)

// String returns the config spelling of the policy.
func (p OverlapPolicy) String() string {
	switch p {
	case OverlapAllow:
		return "allow"
	case OverlapDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// ParseOverlapPolicy parses "allow" or "drop". The empty string means allow.
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch s {
	case "", "allow":
		return OverlapAllow, nil
	case "drop":
		return OverlapDrop, nil
	default:
		return OverlapAllow, fmt.Errorf("%w: unknown overlap policy %q", ErrInvalidConfig, s)
	}
}

// PollConfig controls the status-polling loop.
type PollConfig struct {
	Interval time.Duration
	Overlap  OverlapPolicy
}

// DefaultPollConfig returns the 5s, allow-overlap configuration.
func DefaultPollConfig() PollConfig {
	return PollConfig{Interval: DefaultPollInterval, Overlap: OverlapAllow}
}

// PollConfigFromMillis builds a PollConfig from an interval in milliseconds.
// Non-positive values fall back to the default interval.
func PollConfigFromMillis(ms int) PollConfig {
	cfg := DefaultPollConfig()
	if ms > 0 {
		cfg.Interval = time.Duration(ms) * time.Millisecond
	}
	return cfg
}
