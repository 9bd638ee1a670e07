package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AnalysesProcessed *prometheus.CounterVec
	CatalogErrors     prometheus.Counter
	CatalogSeconds    *prometheus.HistogramVec
	AnalysesInFlight  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		AnalysesProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "seascan_analyses_processed_total",
			Help: "Total number of processed site analyses.",
		}, []string{"status"}),
		CatalogErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "seascan_catalog_api_errors_total",
			Help: "Total number of errors received from the imagery catalog API.",
		}),
		CatalogSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seascan_catalog_request_duration_seconds",
			Help:    "Duration of scene searches against the imagery catalog.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		AnalysesInFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "seascan_analyses_in_flight",
			Help: "Current number of analyses being processed.",
		}),
	}
}
