// Package metrics maintains the prometheus collectors for the node.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "powchain"

// Metrics holds the collectors for the node. A nil *Metrics is valid and
// records nothing, which keeps tests free of registry setup.
type Metrics struct {
	registry *prometheus.Registry

	blocksMined   prometheus.Counter
	staleProofs   prometheus.Counter
	chainReplaced prometheus.Counter
	peerFailures  *prometheus.CounterVec
	chainLength   prometheus.Gauge
	pendingTxs    prometheus.Gauge
	requests      *prometheus.CounterVec
	errors        prometheus.Counter
	panics        prometheus.Counter
}

// New constructs the collectors and registers them with a private registry
// along with the go runtime and process collectors.
func New() *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),

		blocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "blocks_mined_total",
			Help:      "Blocks sealed by this node.",
		}),
		staleProofs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "stale_proofs_total",
			Help:      "Mined proofs discarded because the chain moved underneath.",
		}),
		chainReplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consensus",
			Name:      "chain_replaced_total",
			Help:      "Times the local chain was replaced by a longer peer chain.",
		}),
		peerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consensus",
			Name:      "peer_failures_total",
			Help:      "Peer chains skipped during resolution, by reason.",
		}, []string{"reason"}),
		chainLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "chain_length",
			Help:      "Number of blocks in the local chain.",
		}),
		pendingTxs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "pending_transactions",
			Help:      "Transactions waiting in the pending pool.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "web",
			Name:      "requests_total",
			Help:      "HTTP requests handled, by method.",
		}, []string{"method"}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "web",
			Name:      "errors_total",
			Help:      "HTTP requests that ended with an error.",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "web",
			Name:      "panics_total",
			Help:      "HTTP requests that panicked.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.blocksMined,
		m.staleProofs,
		m.chainReplaced,
		m.peerFailures,
		m.chainLength,
		m.pendingTxs,
		m.requests,
		m.errors,
		m.panics,
	)

	return &m
}

// Handler returns the http handler that exposes the registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// =============================================================================

// BlockMined records a block sealed by this node.
func (m *Metrics) BlockMined() {
	if m == nil {
		return
	}
	m.blocksMined.Inc()
}

// StaleProof records a mined proof that was discarded.
func (m *Metrics) StaleProof() {
	if m == nil {
		return
	}
	m.staleProofs.Inc()
}

// ChainReplaced records a wholesale chain replacement.
func (m *Metrics) ChainReplaced() {
	if m == nil {
		return
	}
	m.chainReplaced.Inc()
}

// PeerFailure records a peer skipped during resolution.
func (m *Metrics) PeerFailure(reason string) {
	if m == nil {
		return
	}
	m.peerFailures.WithLabelValues(reason).Inc()
}

// SetChainLength records the current chain length.
func (m *Metrics) SetChainLength(n int) {
	if m == nil {
		return
	}
	m.chainLength.Set(float64(n))
}

// SetPending records the current pending pool size.
func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pendingTxs.Set(float64(n))
}

// Request records a handled HTTP request.
func (m *Metrics) Request(method string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method).Inc()
}

// Error records an HTTP request that failed.
func (m *Metrics) Error() {
	if m == nil {
		return
	}
	m.errors.Inc()
}

// Panic records an HTTP request that panicked.
func (m *Metrics) Panic() {
	if m == nil {
		return
	}
	m.panics.Inc()
}
