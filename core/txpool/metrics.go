package txpool

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the pool's prometheus collectors. Callers register them
// once via Pool's metrics and MustRegister below; a pool constructed purely
// for tests never calls MustRegister and the gauges simply go unscraped.
type metrics struct {
	pendingGauge prometheus.Gauge
	parkedGauge  prometheus.Gauge
	rejected     *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		pendingGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "txpool",
			Name:      "pending_transactions",
			Help:      "Number of transactions currently in the pending sub-pool.",
		}),
		parkedGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "txpool",
			Name:      "parked_transactions",
			Help:      "Number of transactions currently in the parked sub-pool.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "txpool",
			Name:      "rejected_total",
			Help:      "Count of rejected submissions, labeled by rejection kind.",
		}, []string{"kind"}),
	}
}

// MustRegister registers the pool's collectors against reg. Callers that
// don't care about metrics (most tests) never need to call this.
func (p *Pool[T, P]) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(p.metrics.pendingGauge, p.metrics.parkedGauge, p.metrics.rejected)
}
