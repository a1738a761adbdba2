package smt

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring service.
var (
	// updatesTotal prometheus metric.
	updatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of committed trie versions",
			Name:      "updates_total",
			Namespace: "smt",
		},
	)
	// savedNodes prometheus metric.
	savedNodes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of node records saved to the store",
			Name:      "saved_nodes_total",
			Namespace: "smt",
		},
	)
	// storeLoads prometheus metric.
	storeLoads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of child lookups sent to the store",
			Name:      "store_loads_total",
			Namespace: "smt",
		},
	)
	// version prometheus metric.
	version = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Help:      "Version of the last committed trie",
			Name:      "version",
			Namespace: "smt",
		},
	)
)

func init() {
	prometheus.MustRegister(
		updatesTotal,
		savedNodes,
		storeLoads,
		version,
	)
}

func updateCommitMetrics(v uint64, nodes int) {
	updatesTotal.Inc()
	savedNodes.Add(float64(nodes))
	version.Set(float64(v))
}
