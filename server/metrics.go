package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the Prometheus collectors for the search service.
type metrics struct {
	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	corpusSize     prometheus.Gauge
	reloads        prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docgrep",
			Name:      "searches_total",
			Help:      "Search requests by outcome.",
		}, []string{"outcome"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "docgrep",
			Name:      "search_duration_seconds",
			Help:      "End to end search latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		corpusSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "docgrep",
			Name:      "corpus_documents",
			Help:      "Documents in the active corpus snapshot.",
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docgrep",
			Name:      "corpus_reloads_total",
			Help:      "Successful corpus reloads.",
		}),
	}
	reg.MustRegister(m.searches, m.searchDuration, m.corpusSize, m.reloads)
	return m
}
