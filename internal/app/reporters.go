package app

import (
	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

// MultiReporter fans every event out to each non-nil reporter, in order.
func MultiReporter(reporters ...ports.Reporter) ports.Reporter {
	var rs multiReporter
	for _, r := range reporters {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return rs
}

type multiReporter []ports.Reporter

func (m multiReporter) OnDispatched(kind domain.RequestKind, requestID string) {
	for _, r := range m {
		r.OnDispatched(kind, requestID)
	}
}

func (m multiReporter) OnSkipped(kind domain.RequestKind, reason string) {
	for _, r := range m {
		r.OnSkipped(kind, reason)
	}
}

func (m multiReporter) OnReply(reply domain.Reply) {
	for _, r := range m {
		r.OnReply(reply)
	}
}

func (m multiReporter) OnIteration(n uint64) {
	for _, r := range m {
		r.OnIteration(n)
	}
}

// multiObserver fans state changes out to each observer.
type multiObserver []ports.StateObserver

func (m multiObserver) OnStateChange(previous, current domain.State, reason string) {
	for _, o := range m {
		o.OnStateChange(previous, current, reason)
	}
}
