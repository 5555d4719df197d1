// Package metrics exposes polling activity as Prometheus metrics.
//
// Metrics implements both ports.Reporter and ports.StateObserver so a single
// value can be handed to the client for replies and lifecycle changes.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bft-labs/walletpoll/internal/domain"
)

const namespace = "walletpoll"

// Metrics records polling activity on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	iterations prometheus.Counter
	dispatched *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	replies    *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	balance    *prometheus.GaugeVec
	height     prometheus.Gauge
	utxos      *prometheus.GaugeVec
	bootstrap  *prometheus.CounterVec
	state      *prometheus.GaugeVec

	// utxoMu serialises the reset-and-fill of the utxos gauge.
	utxoMu sync.Mutex
}

// New creates the metric set and registers it, together with the Go runtime
// collector, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "iterations_total",
			Help:      "Polling iterations started",
		}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "requests_dispatched_total",
			Help:      "Queries handed to the wallet engine",
		}, []string{"kind"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "requests_skipped_total",
			Help:      "Queries not dispatched because the previous one was still in flight",
		}, []string{"kind"}),
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "replies_total",
			Help:      "Query replies by outcome",
		}, []string{"kind", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "reply_latency_seconds",
			Help:      "Time from dispatch to reply",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"kind"}),
		balance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "balance_groth",
			Help:      "Wallet totals from the last status reply",
		}, []string{"bucket"}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "height",
			Help:      "Chain height the wallet last synchronized to",
		}),
		utxos: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "utxos",
			Help:      "Unspent outputs in the last snapshot by status",
		}, []string{"status"}),
		bootstrap: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bootstrap_total",
			Help:      "Bootstrap attempts by path and outcome",
		}, []string{"path", "outcome"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "Current lifecycle state (1 for the active state)",
		}, []string{"state"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.iterations,
		m.dispatched,
		m.skipped,
		m.replies,
		m.latency,
		m.balance,
		m.height,
		m.utxos,
		m.bootstrap,
		m.state,
	)
	return m
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OnIteration(uint64) {
	m.iterations.Inc()
}

func (m *Metrics) OnDispatched(kind domain.RequestKind, _ string) {
	m.dispatched.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) OnSkipped(kind domain.RequestKind, _ string) {
	m.skipped.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) OnReply(reply domain.Reply) {
	kind := string(reply.Kind)
	m.latency.WithLabelValues(kind).Observe(reply.Latency.Seconds())

	if !reply.OK() {
		m.replies.WithLabelValues(kind, "error").Inc()
		return
	}
	m.replies.WithLabelValues(kind, "ok").Inc()

	switch reply.Kind {
	case domain.KindStatus:
		if s := reply.Status; s != nil {
			m.balance.WithLabelValues("available").Set(float64(s.Available))
			m.balance.WithLabelValues("receiving").Set(float64(s.Receiving))
			m.balance.WithLabelValues("sending").Set(float64(s.Sending))
			m.balance.WithLabelValues("maturing").Set(float64(s.Maturing))
			m.height.Set(float64(s.Height))
		}
	case domain.KindUtxos:
		counts := map[domain.CoinStatus]int{}
		for _, u := range reply.Utxos {
			counts[u.Status]++
		}
		m.utxoMu.Lock()
		m.utxos.Reset()
		for status, n := range counts {
			m.utxos.WithLabelValues(string(status)).Set(float64(n))
		}
		m.utxoMu.Unlock()
	}
}

// OnStateChange tracks the active state and counts bootstrap outcomes.
func (m *Metrics) OnStateChange(previous, current domain.State, _ string) {
	m.state.WithLabelValues(previous.String()).Set(0)
	m.state.WithLabelValues(current.String()).Set(1)

	switch previous {
	case domain.StateOpening, domain.StateCreating:
		path := "open"
		if previous == domain.StateCreating {
			path = "create"
		}
		outcome := "success"
		if current == domain.StateFailed {
			outcome = "failure"
		}
		m.bootstrap.WithLabelValues(path, outcome).Inc()
	case domain.StateCheckingExistence:
		if current == domain.StateFailed {
			m.bootstrap.WithLabelValues("existence_check", "failure").Inc()
		}
	}
}
