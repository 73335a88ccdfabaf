package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// Metrics holds the Prometheus collectors of a Runner. A nil *Metrics disables collection.
type Metrics struct {
	queriesTotal  *prometheus.CounterVec // by status: ok, error
	queryDuration prometheus.Histogram
}

// NewMetrics creates the runner metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gremlinbridge",
			Name:      "queries_total",
			Help:      "Total number of submitted queries",
		}, []string{"status"}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gremlinbridge",
			Name:      "query_duration_seconds",
			Help:      "Query round trip duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}),
	}
	for _, c := range []prometheus.Collector{m.queriesTotal, m.queryDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(start time.Time, err error) {
	if m == nil {
		return
	}
	m.queryDuration.Observe(time.Since(start).Seconds())
	status := statusOK
	if err != nil {
		status = statusError
	}
	m.queriesTotal.WithLabelValues(status).Inc()
}
