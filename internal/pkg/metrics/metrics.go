package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "energy"

var (
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Estimated data requests by backend mode and status code.",
		},
		[]string{"mode", "code"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time spent answering estimated data requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	DataPoints = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "response_data_points",
			Help:      "Number of timestamps returned per response.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	CSVCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csv_cache_hits_total",
		Help:      "CSV cache lookups served from memory.",
	})

	CSVCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csv_cache_misses_total",
		Help:      "CSV cache lookups that had to wait for a load.",
	})

	CSVCacheLoads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csv_cache_loads_total",
		Help:      "CSV files parsed from disk.",
	})

	ImportedRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Rows written by the importer per house.",
		},
		[]string{"house"},
	)
)

// Register adds every collector to reg. It is called once by each binary.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		Requests,
		RequestDuration,
		DataPoints,
		CSVCacheHits,
		CSVCacheMisses,
		CSVCacheLoads,
		ImportedRows,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
