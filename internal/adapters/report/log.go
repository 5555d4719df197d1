// Package report contains reporters that turn polling events into log lines.
package report

import (
	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

// LogReporter writes every polling event to a ports.Logger.
// Per-request chatter goes to debug; results go to info, failures to warn.
type LogReporter struct {
	logger ports.Logger
}

// NewLogReporter creates a reporter logging through logger.
func NewLogReporter(logger ports.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) OnIteration(n uint64) {
	r.logger.Debug("show wallet info", ports.Uint64("iteration", n))
}

func (r *LogReporter) OnDispatched(kind domain.RequestKind, requestID string) {
	r.logger.Debug("request dispatched",
		ports.String("kind", string(kind)),
		ports.String("request_id", requestID),
	)
}

func (r *LogReporter) OnSkipped(kind domain.RequestKind, reason string) {
	r.logger.Info("request skipped",
		ports.String("kind", string(kind)),
		ports.String("reason", reason),
	)
}

func (r *LogReporter) OnReply(reply domain.Reply) {
	if !reply.OK() {
		r.logger.Warn("request failed",
			ports.String("kind", string(reply.Kind)),
			ports.String("request_id", reply.RequestID),
			ports.Duration("latency", reply.Latency),
			ports.Err(reply.Err),
		)
		return
	}

	switch reply.Kind {
	case domain.KindStatus:
		if reply.Status == nil {
			r.logger.Warn("status reply without status", ports.String("request_id", reply.RequestID))
			return
		}
		s := reply.Status
		r.logger.Info("wallet status",
			ports.String("request_id", reply.RequestID),
			ports.String("available", domain.FormatAmount(s.Available)),
			ports.String("receiving", domain.FormatAmount(s.Receiving)),
			ports.String("sending", domain.FormatAmount(s.Sending)),
			ports.String("maturing", domain.FormatAmount(s.Maturing)),
			ports.Uint64("height", s.Height),
			ports.Duration("latency", reply.Latency),
		)
	case domain.KindUtxos:
		var total uint64
		for _, u := range reply.Utxos {
			if u.Status == domain.CoinAvailable {
				total += u.Amount
			}
		}
		r.logger.Info("utxo snapshot",
			ports.String("request_id", reply.RequestID),
			ports.Int("count", len(reply.Utxos)),
			ports.String("available", domain.FormatAmount(total)),
			ports.Duration("latency", reply.Latency),
		)
		for _, u := range reply.Utxos {
			r.logger.Debug("utxo",
				ports.String("id", u.ID),
				ports.String("amount", domain.FormatAmount(u.Amount)),
				ports.Uint64("maturity", u.Maturity),
				ports.String("status", string(u.Status)),
			)
		}
	}
}
